package core

import "math"

// NormalizeVector scales a vector to unit length, returning a new slice.
// A zero vector comes back as a fresh zero vector of the same length.
// Stored embeddings and query embeddings must both pass through this so
// inner-product search behaves as cosine similarity.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float32
	for _, val := range v {
		sumSquares += val * val
	}
	magnitude := float32(math.Sqrt(float64(sumSquares)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
