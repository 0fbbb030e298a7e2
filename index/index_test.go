package index

import (
	"fmt"
	"math"
	"testing"

	"github.com/shelfwise/shelfwise/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitVec returns a normalized 4-dimensional vector.
func unitVec(components ...float32) []float32 {
	var norm float64
	for _, c := range components {
		norm += float64(c) * float64(c)
	}
	n := float32(math.Sqrt(norm))
	out := make([]float32, len(components))
	for i, c := range components {
		out[i] = c / n
	}
	return out
}

func docWithVec(id string, vec []float32) *core.Document {
	return core.NewDocument(id, "text for "+id, core.Metadata{}, vec)
}

func TestIndexBuild(t *testing.T) {
	t.Run("builds and trains", func(t *testing.T) {
		ix := New(4, WithPartitions(2))
		docs := []*core.Document{
			docWithVec("a", unitVec(1, 0, 0, 0)),
			docWithVec("b", unitVec(0, 1, 0, 0)),
			docWithVec("c", unitVec(0, 0, 1, 0)),
		}
		require.NoError(t, ix.Build(docs))
		assert.Equal(t, 3, ix.Len())
		assert.True(t, ix.Trained())
	})

	t.Run("missing embedding fails", func(t *testing.T) {
		ix := New(4)
		err := ix.Build([]*core.Document{docWithVec("a", nil)})
		assert.ErrorIs(t, err, ErrMissingEmbedding)
		assert.ErrorIs(t, err, core.ErrIndex)
	})

	t.Run("wrong dimension fails", func(t *testing.T) {
		ix := New(4)
		err := ix.Build([]*core.Document{docWithVec("a", []float32{1, 0})})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("failed build keeps previous contents", func(t *testing.T) {
		ix := New(4)
		require.NoError(t, ix.Build([]*core.Document{docWithVec("a", unitVec(1, 0, 0, 0))}))

		err := ix.Build([]*core.Document{docWithVec("b", []float32{1})})
		require.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 1, ix.Len())
		assert.True(t, ix.Contains("a"))
	})
}

func TestIndexSearch(t *testing.T) {
	ix := New(4)
	require.NoError(t, ix.Build([]*core.Document{
		docWithVec("a", unitVec(1, 0, 0, 0)),
		docWithVec("b", unitVec(1, 1, 0, 0)),
		docWithVec("c", unitVec(0, 1, 0, 0)),
	}))

	t.Run("sorted descending", func(t *testing.T) {
		hits, err := ix.Search(unitVec(1, 0, 0, 0), 3, false)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "a", hits[0].ID)
		assert.Equal(t, "b", hits[1].ID)
		assert.Equal(t, "c", hits[2].ID)
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}
	})

	t.Run("similarity bounded for unit vectors", func(t *testing.T) {
		hits, err := ix.Search(unitVec(2, 1, 1, 3), 3, false)
		require.NoError(t, err)
		for _, h := range hits {
			assert.LessOrEqual(t, h.Score, float32(1.0001))
			assert.GreaterOrEqual(t, h.Score, float32(-1.0001))
		}
	})

	t.Run("fewer results than top k", func(t *testing.T) {
		hits, err := ix.Search(unitVec(1, 0, 0, 0), 10, false)
		require.NoError(t, err)
		assert.Len(t, hits, 3)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := ix.Search([]float32{1, 0}, 3, false)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("ties break on insertion order", func(t *testing.T) {
		tied := New(2)
		require.NoError(t, tied.Build([]*core.Document{
			docWithVec("first", []float32{0, 1}),
			docWithVec("second", []float32{0, 1}),
		}))
		hits, err := tied.Search([]float32{0, 1}, 2, false)
		require.NoError(t, err)
		assert.Equal(t, "first", hits[0].ID)
		assert.Equal(t, "second", hits[1].ID)
	})
}

func TestIndexSearchByID(t *testing.T) {
	ix := New(4)
	require.NoError(t, ix.Build([]*core.Document{
		docWithVec("a", unitVec(1, 0, 0, 0)),
		docWithVec("b", unitVec(1, 0.1, 0, 0)),
	}))

	t.Run("uses stored embedding", func(t *testing.T) {
		hits, err := ix.SearchByID("a", 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "a", hits[0].ID) // self is the closest match
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := ix.SearchByID("nope", 2)
		assert.ErrorIs(t, err, ErrUnknownID)
	})
}

func TestIndexRemove(t *testing.T) {
	ix := New(4)
	require.NoError(t, ix.Build([]*core.Document{
		docWithVec("a", unitVec(1, 0, 0, 0)),
		docWithVec("b", unitVec(0, 1, 0, 0)),
	}))

	assert.True(t, ix.Remove("a"))
	assert.Equal(t, 1, ix.Len())

	// Idempotent: removing again changes nothing and does not fail.
	assert.False(t, ix.Remove("a"))
	assert.Equal(t, 1, ix.Len())

	hits, err := ix.Search(unitVec(1, 0, 0, 0), 2, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)
}

func TestIndexAddInvalidatesTraining(t *testing.T) {
	ix := New(4, WithPartitions(2))
	require.NoError(t, ix.Build([]*core.Document{
		docWithVec("a", unitVec(1, 0, 0, 0)),
		docWithVec("b", unitVec(0, 1, 0, 0)),
	}))
	require.True(t, ix.Trained())

	require.NoError(t, ix.Add([]*core.Document{docWithVec("c", unitVec(0, 0, 1, 0))}))
	assert.False(t, ix.Trained())

	// Approximate search transparently falls back to the exact path and
	// still finds the newly added document.
	hits, err := ix.Search(unitVec(0, 0, 1, 0), 1, true)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c", hits[0].ID)

	ix.Train()
	assert.True(t, ix.Trained())
}

func TestIndexAddReplacesExisting(t *testing.T) {
	ix := New(2)
	require.NoError(t, ix.Build([]*core.Document{docWithVec("a", []float32{1, 0})}))
	require.NoError(t, ix.Add([]*core.Document{docWithVec("a", []float32{0, 1})}))

	assert.Equal(t, 1, ix.Len())
	vec, ok := ix.Vector("a")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1}, vec)

	hits, err := ix.Search([]float32{1, 0}, 2, false)
	require.NoError(t, err)
	require.Len(t, hits, 1) // the retired copy never surfaces
	assert.Equal(t, float32(0), hits[0].Score)
}

func TestApproximateSearchAgreesOnLargeCorpus(t *testing.T) {
	ix := New(8, WithPartitions(4), WithProbes(4))

	var docs []*core.Document
	for i := 0; i < 64; i++ {
		vec := make([]float32, 8)
		vec[i%8] = 1
		vec[(i+3)%8] = float32(i%5) / 5
		docs = append(docs, docWithVec(fmt.Sprintf("doc-%02d", i), unitVec(vec...)))
	}
	require.NoError(t, ix.Build(docs))
	require.True(t, ix.Trained())

	query := unitVec(1, 0, 0, 0.5, 0, 0, 0, 0)
	exact, err := ix.Search(query, 5, false)
	require.NoError(t, err)

	// Probing every partition makes the approximate path exhaustive, so it
	// must agree with the exact path.
	approx, err := ix.Search(query, 5, true)
	require.NoError(t, err)
	assert.Equal(t, exact, approx)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ix := New(4, WithPartitions(2))
	require.NoError(t, ix.Build([]*core.Document{
		docWithVec("a", unitVec(1, 0, 0, 0)),
		docWithVec("b", unitVec(0, 1, 0, 0)),
		docWithVec("c", unitVec(0, 0, 1, 0)),
	}))
	ix.Remove("b")

	exact, approx := ix.Snapshot()
	restored, err := FromSnapshot(exact, approx)
	require.NoError(t, err)

	assert.Equal(t, ix.Len(), restored.Len())
	assert.ElementsMatch(t, ix.IDs(), restored.IDs())

	hits, err := restored.Search(unitVec(0, 1, 0, 0), 3, false)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "b", h.ID)
	}

	va, ok := ix.Vector("a")
	require.True(t, ok)
	vb, ok := restored.Vector("a")
	require.True(t, ok)
	assert.Equal(t, va, vb)
}

func TestFromSnapshotRejectsCorruptState(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := FromSnapshot(&ExactSnapshot{
			Dim:     2,
			IDs:     []string{"a", "b"},
			Live:    []bool{true},
			Vectors: [][]float32{{1, 0}, {0, 1}},
		}, &ApproxSnapshot{})
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("dangling partition offset", func(t *testing.T) {
		_, err := FromSnapshot(&ExactSnapshot{
			Dim:     2,
			IDs:     []string{"a"},
			Live:    []bool{true},
			Vectors: [][]float32{{1, 0}},
		}, &ApproxSnapshot{
			Trained:   true,
			Centroids: [][]float32{{1, 0}},
			Lists:     [][]int{{0, 7}},
		})
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})
}
