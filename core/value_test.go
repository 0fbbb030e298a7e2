package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		v := String("hello")
		assert.Equal(t, KindString, v.Kind())

		s, err := v.AsString()
		require.NoError(t, err)
		assert.Equal(t, "hello", s)

		_, err = v.AsNumber()
		assert.ErrorIs(t, err, ErrMetadataType)
	})

	t.Run("number", func(t *testing.T) {
		v := Number(4.5)
		f, err := v.AsNumber()
		require.NoError(t, err)
		assert.Equal(t, 4.5, f)

		_, err = v.AsBool()
		assert.ErrorIs(t, err, ErrMetadataType)
	})

	t.Run("bool", func(t *testing.T) {
		v := Bool(true)
		b, err := v.AsBool()
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("string list", func(t *testing.T) {
		v := StringList([]string{"fantasy", "adventure"})
		list, err := v.AsStringList()
		require.NoError(t, err)
		assert.Equal(t, []string{"fantasy", "adventure"}, list)

		_, err = v.AsString()
		assert.ErrorIs(t, err, ErrMetadataType)
	})

	t.Run("null", func(t *testing.T) {
		v := Null()
		assert.True(t, v.IsNull())

		_, err := v.AsString()
		assert.ErrorIs(t, err, ErrMetadataType)
	})

	t.Run("zero value is null", func(t *testing.T) {
		var v Value
		assert.True(t, v.IsNull())
	})
}

func TestMetadataOrder(t *testing.T) {
	var m Metadata
	m.Set("title", String("Dune"))
	m.Set("author", String("Frank Herbert"))
	m.Set("average_rating", Number(4.2))

	assert.Equal(t, []string{"title", "author", "average_rating"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	// Overwriting keeps the original position.
	m.Set("title", String("Dune Messiah"))
	assert.Equal(t, []string{"title", "author", "average_rating"}, m.Keys())

	title, err := m.String("title")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", title)
}

func TestMetadataTypedAccess(t *testing.T) {
	var m Metadata
	m.Set("average_rating", Number(4.2))
	m.Set("ratings_count", Number(1500))
	m.Set("is_ebook", Bool(false))
	m.Set("genres", StringList([]string{"science-fiction"}))

	t.Run("missing key", func(t *testing.T) {
		_, err := m.String("title")
		assert.ErrorIs(t, err, ErrMetadataMissing)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := m.String("average_rating")
		assert.ErrorIs(t, err, ErrMetadataType)
	})

	t.Run("int truncation", func(t *testing.T) {
		n, err := m.Int("ratings_count")
		require.NoError(t, err)
		assert.Equal(t, 1500, n)
	})

	t.Run("bool", func(t *testing.T) {
		b, err := m.Bool("is_ebook")
		require.NoError(t, err)
		assert.False(t, b)
	})

	t.Run("string list", func(t *testing.T) {
		genres, err := m.StringList("genres")
		require.NoError(t, err)
		assert.Equal(t, []string{"science-fiction"}, genres)
	})
}
