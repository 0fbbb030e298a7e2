package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/shelfwise/core"
)

func result(author string, genres []string, similarity float32, ratings int, rating float64) *core.RecommendationResult {
	return &core.RecommendationResult{
		Book: &core.Book{
			ID:            author + "-book",
			Title:         "A Book",
			Author:        author,
			Genres:        genres,
			AverageRating: rating,
			RatingsCount:  ratings,
		},
		Similarity: similarity,
	}
}

func TestDiversityScore(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		assert.Equal(t, 0.0, diversityScore(nil))
	})

	t.Run("single result is well-defined", func(t *testing.T) {
		single := diversityScore([]*core.RecommendationResult{
			result("A", []string{"fantasy"}, 0.9, 100, 4.0),
		})
		// 1 genre / (1*3) averaged with 1 author / 1.
		assert.InDelta(t, (1.0/3.0+1.0)/2.0, single, 1e-9)
	})

	t.Run("disjoint pair scores above zero and bounds the single case", func(t *testing.T) {
		pair := diversityScore([]*core.RecommendationResult{
			result("A", []string{"fantasy"}, 0.9, 100, 4.0),
			result("B", []string{"horror"}, 0.8, 100, 4.0),
		})
		single := diversityScore([]*core.RecommendationResult{
			result("A", []string{"fantasy"}, 0.9, 100, 4.0),
		})
		assert.Greater(t, pair, 0.0)
		assert.LessOrEqual(t, single, (1.0/3.0+1.0)/2.0)
		assert.LessOrEqual(t, pair, (2.0/(2*3.0)+1.0)/2.0)
	})

	t.Run("duplicate authors lower the score", func(t *testing.T) {
		same := diversityScore([]*core.RecommendationResult{
			result("A", []string{"fantasy"}, 0.9, 100, 4.0),
			result("A", []string{"fantasy"}, 0.8, 100, 4.0),
		})
		distinct := diversityScore([]*core.RecommendationResult{
			result("A", []string{"fantasy"}, 0.9, 100, 4.0),
			result("B", []string{"horror"}, 0.8, 100, 4.0),
		})
		assert.Less(t, same, distinct)
	})
}

func TestRankResults(t *testing.T) {
	t.Run("popularity can outrank similarity", func(t *testing.T) {
		popular := result("A", []string{"fantasy"}, 0.1, 10000, 5.0)
		obscure := result("B", []string{"horror"}, 0.9, 0, 0.0)
		results := []*core.RecommendationResult{obscure, popular}

		rankResults(results)
		assert.Same(t, popular, results[0])
		assert.Same(t, obscure, results[1])
	})

	t.Run("ties keep retrieval order", func(t *testing.T) {
		first := result("A", []string{"fantasy"}, 0.5, 100, 4.0)
		second := result("B", []string{"fantasy"}, 0.5, 100, 4.0)
		results := []*core.RecommendationResult{first, second}

		rankResults(results)
		assert.Same(t, first, results[0])
		assert.Same(t, second, results[1])
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		rankResults(nil)
	})
}
