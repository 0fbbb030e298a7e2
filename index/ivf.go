package index

import (
	"math"
	"slices"
)

// ivfIndex is the approximate search path: vectors are partitioned into
// inverted lists around trained centroids, and a query scans only the lists
// whose centroids are closest to it. Training is a spherical k-means pass
// over the full corpus; until it has run, the structure cannot answer
// queries.
type ivfIndex struct {
	dim       int
	nlist     int
	nprobe    int
	trained   bool
	centroids [][]float32
	lists     [][]int // offsets into the flat structure, per centroid
}

const (
	defaultPartitions = 100
	defaultProbes     = 8
	kmeansMaxIter     = 10
)

func newIVFIndex(dim, nlist, nprobe int) *ivfIndex {
	if nlist < 1 {
		nlist = defaultPartitions
	}
	if nprobe < 1 {
		nprobe = defaultProbes
	}
	return &ivfIndex{dim: dim, nlist: nlist, nprobe: nprobe}
}

// invalidate marks the partitions stale. Any mutation of the underlying
// vector set (add, remove) retires the trained state; callers needing
// approximate search afterwards must retrain.
func (iv *ivfIndex) invalidate() {
	iv.trained = false
	iv.centroids = nil
	iv.lists = nil
}

// train runs spherical k-means over the live vectors and assigns every
// offset to its nearest partition. offsets[i] is the flat offset of
// vectors[i]. Training with an empty corpus is a no-op that leaves the
// structure untrained.
func (iv *ivfIndex) train(vectors [][]float32, offsets []int) {
	if len(vectors) == 0 {
		iv.invalidate()
		return
	}

	k := iv.nlist
	if k > len(vectors) {
		k = len(vectors)
	}

	// Deterministic seeding: evenly strided picks over insertion order.
	centroids := make([][]float32, k)
	stride := len(vectors) / k
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < k; i++ {
		centroids[i] = slices.Clone(vectors[(i*stride)%len(vectors)])
	}

	assignments := make([]int, len(vectors))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, vec := range vectors {
			best := nearestCentroid(centroids, vec)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		// Recompute centroids as normalized means of their members.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, iv.dim)
		}
		for i, vec := range vectors {
			c := assignments[i]
			counts[c]++
			for d, v := range vec {
				sums[c][d] += float64(v)
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // empty partition keeps its previous centroid
			}
			var norm float64
			mean := make([]float32, iv.dim)
			for d := range mean {
				m := sums[c][d] / float64(counts[c])
				mean[d] = float32(m)
				norm += m * m
			}
			if norm > 0 {
				inv := float32(1.0 / math.Sqrt(norm))
				for d := range mean {
					mean[d] *= inv
				}
			}
			centroids[c] = mean
		}

		if !changed && iter > 0 {
			break
		}
	}

	lists := make([][]int, k)
	for i, c := range assignments {
		lists[c] = append(lists[c], offsets[i])
	}

	iv.centroids = centroids
	iv.lists = lists
	iv.trained = true
}

// nearestCentroid returns the centroid index with the highest inner product
// against vec, preferring the lowest index on ties.
func nearestCentroid(centroids [][]float32, vec []float32) int {
	best := 0
	bestScore := float32(math.Inf(-1))
	for c, centroid := range centroids {
		if score := dotProduct(centroid, vec); score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// search scans the nprobe partitions nearest to the query and returns up to
// topK offsets sorted by descending similarity, insertion order on ties.
// vectorAt resolves an offset to its stored vector; live filters tombstones.
// The caller must ensure the structure is trained.
func (iv *ivfIndex) search(query []float32, topK int, vectorAt func(offset int) []float32, live func(offset int) bool) []offsetHit {
	probes := iv.nprobe
	if probes > len(iv.centroids) {
		probes = len(iv.centroids)
	}

	// Rank partitions by centroid similarity.
	order := make([]offsetHit, len(iv.centroids))
	for c, centroid := range iv.centroids {
		order[c] = offsetHit{offset: c, score: dotProduct(query, centroid)}
	}
	slices.SortStableFunc(order, func(a, b offsetHit) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	var hits []offsetHit
	for _, part := range order[:probes] {
		for _, offset := range iv.lists[part.offset] {
			if !live(offset) {
				continue
			}
			hits = append(hits, offsetHit{offset: offset, score: dotProduct(query, vectorAt(offset))})
		}
	}

	// Offsets within lists are in insertion order per list; resort globally
	// by offset first so ties break on insertion order across partitions.
	slices.SortFunc(hits, func(a, b offsetHit) int { return a.offset - b.offset })
	slices.SortStableFunc(hits, func(a, b offsetHit) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
