package index

import "slices"

// Hit is a single nearest-neighbor result: the document id and its raw
// inner-product similarity to the query.
type Hit struct {
	ID    string
	Score float32
}

// offsetHit pairs a dense offset with its score during candidate collection.
type offsetHit struct {
	offset int
	score  float32
}

// dotProduct computes the inner product of two equal-length vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// flatIndex is the exact search path: a dense array of vectors scanned in
// full for every query. Offsets are assigned in insertion order and never
// reused within a session.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

// add appends a vector and returns its offset. The caller has already
// checked the dimension.
func (f *flatIndex) add(vec []float32) int {
	f.vectors = append(f.vectors, vec)
	return len(f.vectors) - 1
}

func (f *flatIndex) len() int { return len(f.vectors) }

func (f *flatIndex) at(offset int) []float32 { return f.vectors[offset] }

// search scans every live vector and returns up to topK offsets sorted by
// descending similarity. live reports whether an offset may surface in
// results; tombstoned offsets are skipped during the scan so they can never
// leak into output. The sort is stable, so equal scores keep insertion
// order.
func (f *flatIndex) search(query []float32, topK int, live func(offset int) bool) []offsetHit {
	hits := make([]offsetHit, 0, len(f.vectors))
	for offset, vec := range f.vectors {
		if !live(offset) {
			continue
		}
		hits = append(hits, offsetHit{offset: offset, score: dotProduct(query, vec)})
	}

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
