package index

import (
	"fmt"
	"slices"
)

// ExactSnapshot is the serializable state of the exact structure: every
// offset in insertion order with its id, liveness, and vector.
type ExactSnapshot struct {
	Dim     int
	IDs     []string
	Live    []bool
	Vectors [][]float32
}

// ApproxSnapshot is the serializable state of the partitioned structure.
type ApproxSnapshot struct {
	Trained    bool
	Partitions int
	Probes     int
	Centroids  [][]float32
	Lists      [][]int
}

// Snapshot exports the full index state for persistence.
func (ix *Index) Snapshot() (*ExactSnapshot, *ApproxSnapshot) {
	exact := &ExactSnapshot{
		Dim:     ix.dim,
		IDs:     slices.Clone(ix.offsetToID),
		Live:    slices.Clone(ix.live),
		Vectors: make([][]float32, ix.flat.len()),
	}
	for offset := range exact.Vectors {
		exact.Vectors[offset] = slices.Clone(ix.flat.at(offset))
	}

	approx := &ApproxSnapshot{
		Trained:    ix.ivf.trained,
		Partitions: ix.ivf.nlist,
		Probes:     ix.ivf.nprobe,
	}
	if ix.ivf.trained {
		approx.Centroids = make([][]float32, len(ix.ivf.centroids))
		for i, c := range ix.ivf.centroids {
			approx.Centroids[i] = slices.Clone(c)
		}
		approx.Lists = make([][]int, len(ix.ivf.lists))
		for i, l := range ix.ivf.lists {
			approx.Lists[i] = slices.Clone(l)
		}
	}
	return exact, approx
}

// FromSnapshot reconstructs an index from persisted state. The snapshots
// are validated for internal consistency first; an inconsistent pair fails
// with ErrCorruptSnapshot and produces no index.
func FromSnapshot(exact *ExactSnapshot, approx *ApproxSnapshot) (*Index, error) {
	if exact.Dim <= 0 {
		return nil, fmt.Errorf("%w: non-positive dimension %d", ErrCorruptSnapshot, exact.Dim)
	}
	n := len(exact.IDs)
	if len(exact.Live) != n || len(exact.Vectors) != n {
		return nil, fmt.Errorf("%w: offset table lengths disagree (%d ids, %d live, %d vectors)",
			ErrCorruptSnapshot, n, len(exact.Live), len(exact.Vectors))
	}
	for offset, vec := range exact.Vectors {
		if len(vec) != exact.Dim {
			return nil, fmt.Errorf("%w: vector at offset %d has %d dimensions, want %d",
				ErrCorruptSnapshot, offset, len(vec), exact.Dim)
		}
	}
	if approx.Trained {
		for _, list := range approx.Lists {
			for _, offset := range list {
				if offset < 0 || offset >= n {
					return nil, fmt.Errorf("%w: partition references offset %d outside [0, %d)",
						ErrCorruptSnapshot, offset, n)
				}
			}
		}
		for _, c := range approx.Centroids {
			if len(c) != exact.Dim {
				return nil, fmt.Errorf("%w: centroid has %d dimensions, want %d",
					ErrCorruptSnapshot, len(c), exact.Dim)
			}
		}
	}

	ix := New(exact.Dim, WithPartitions(approx.Partitions), WithProbes(approx.Probes))
	for offset, id := range exact.IDs {
		ix.flat.add(slices.Clone(exact.Vectors[offset]))
		ix.offsetToID = append(ix.offsetToID, id)
		alive := exact.Live[offset]
		ix.live = append(ix.live, alive)
		if alive {
			ix.idToOffset[id] = offset
			ix.liveCount++
		}
	}
	if approx.Trained {
		ix.ivf.trained = true
		ix.ivf.centroids = make([][]float32, len(approx.Centroids))
		for i, c := range approx.Centroids {
			ix.ivf.centroids[i] = slices.Clone(c)
		}
		ix.ivf.lists = make([][]int, len(approx.Lists))
		for i, l := range approx.Lists {
			ix.ivf.lists[i] = slices.Clone(l)
		}
	}
	return ix, nil
}
