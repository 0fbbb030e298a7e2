package store

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/core"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "catalog")

	s := newTestStore(t)
	require.NoError(t, s.Add(
		testDoc("a", []float32{1, 0, 0, 0}),
		testDoc("b", []float32{0, 1, 0, 0}),
		testDoc("c", []float32{0, 0, 1, 0}),
	))
	s.Train()
	require.NoError(t, s.Save(base))

	for _, suffix := range []string{exactSuffix, approxSuffix, mappingSuffix} {
		_, err := os.Stat(base + suffix)
		assert.NoError(t, err, "artifact %s should exist", suffix)
	}

	fresh := newTestStore(t)
	require.NoError(t, fresh.Load(base))

	assert.Equal(t, s.Len(), fresh.Len())
	assert.True(t, fresh.Stats().Trained, "trained state survives a round trip")
	for _, id := range []string{"a", "b", "c"} {
		want, err := s.Get(id)
		require.NoError(t, err)
		got, err := fresh.Get(id)
		require.NoError(t, err)

		assert.Equal(t, want.Embedding, got.Embedding)
		assert.Equal(t, want.Text, got.Text)
		assert.Equal(t, want.Metadata.Keys(), got.Metadata.Keys())
		title, err := got.Metadata.String(core.MetaTitle)
		require.NoError(t, err)
		assert.Equal(t, "Book "+id, title)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	}

	// The loaded store answers searches identically.
	wantHits, err := s.Search([]float32{1, 0, 0, 0}, 3, false)
	require.NoError(t, err)
	gotHits, err := fresh.Search([]float32{1, 0, 0, 0}, 3, false)
	require.NoError(t, err)
	assert.Equal(t, wantHits, gotHits)
}

func TestSaveLoadPreservesTombstones(t *testing.T) {
	base := filepath.Join(t.TempDir(), "catalog")

	s := newTestStore(t)
	require.NoError(t, s.Add(testDoc("a", unitVec(0)), testDoc("b", unitVec(1))))
	s.Remove("a")
	require.NoError(t, s.Save(base))

	fresh := newTestStore(t)
	require.NoError(t, fresh.Load(base))

	assert.Equal(t, 1, fresh.Len())
	assert.False(t, fresh.Contains("a"))
	hits, err := fresh.Search(unitVec(0), 2, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)
}

func TestLoadCountMismatchKeepsPriorContents(t *testing.T) {
	base := filepath.Join(t.TempDir(), "catalog")

	s := newTestStore(t)
	require.NoError(t, s.Add(testDoc("a", unitVec(0)), testDoc("b", unitVec(1))))
	require.NoError(t, s.Save(base))

	// Rewrite the mapping's count field to declare five records while the
	// artifact still holds two.
	mapping, err := os.ReadFile(base + mappingSuffix)
	require.NoError(t, err)
	binary.LittleEndian.PutUint64(mapping, 5)
	require.NoError(t, os.WriteFile(base+mappingSuffix, mapping, 0o644))

	target := newTestStore(t)
	require.NoError(t, target.Add(testDoc("prior", unitVec(2))))

	err = target.Load(base)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIndex)
	assert.ErrorIs(t, err, ErrCountMismatch)

	// Load is all-or-nothing: the prior contents are untouched.
	assert.Equal(t, 1, target.Len())
	assert.True(t, target.Contains("prior"))
	assert.False(t, target.Contains("a"))
}

func TestLoadTruncatedMapping(t *testing.T) {
	base := filepath.Join(t.TempDir(), "catalog")

	s := newTestStore(t)
	require.NoError(t, s.Add(testDoc("a", unitVec(0))))
	require.NoError(t, s.Save(base))

	mapping, err := os.ReadFile(base + mappingSuffix)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(base+mappingSuffix, mapping[:len(mapping)-4], 0o644))

	target := newTestStore(t)
	err = target.Load(base)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIndex)
	assert.Equal(t, 0, target.Len())
}

func TestLoadMissingArtifact(t *testing.T) {
	target := newTestStore(t)
	err := target.Load(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotRead)
	assert.ErrorIs(t, err, core.ErrIndex)
}

func TestLoadDimensionMismatch(t *testing.T) {
	base := filepath.Join(t.TempDir(), "catalog")

	s := newTestStore(t)
	require.NoError(t, s.Add(testDoc("a", unitVec(0))))
	require.NoError(t, s.Save(base))

	other, err := New(8)
	require.NoError(t, err)
	require.NoError(t, other.Add(core.NewDocument("prior", "text", core.Metadata{}, make([]float32, 8))))

	err = other.Load(base)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotRead)
	assert.True(t, other.Contains("prior"))
}

func TestLoadClearsCache(t *testing.T) {
	base := filepath.Join(t.TempDir(), "catalog")

	s := newTestStore(t)
	require.NoError(t, s.Add(testDoc("a", unitVec(0))))
	require.NoError(t, s.Save(base))

	target := newTestStore(t)
	require.NoError(t, target.Add(testDoc("other", unitVec(1))))
	hits, err := target.Search(unitVec(1), 5, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "other", hits[0].ID)

	require.NoError(t, target.Load(base))
	hits, err = target.Search(unitVec(1), 5, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID, "a stale cached result must not survive a load")
}
