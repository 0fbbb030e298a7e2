package ingestion

import (
	"testing"

	"github.com/shelfwise/shelfwise/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessor_NormalizeGenres(t *testing.T) {
	pre := NewPreprocessor()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"exact match", []string{"fantasy"}, []string{"fantasy"}},
		{"case folding", []string{"Fantasy", "MYSTERY"}, []string{"fantasy", "mystery"}},
		{"alias", []string{"sci-fi", "ya"}, []string{"science-fiction", "young-adult"}},
		{"spaces to hyphens", []string{"science fiction"}, []string{"science-fiction"}},
		{"closest match", []string{"fantas"}, []string{"fantasy"}},
		{"misspelling", []string{"mistery"}, []string{"mystery"}},
		{"duplicates collapse", []string{"sci-fi", "scifi", "sf"}, []string{"science-fiction"}},
		{"empty dropped", []string{"", "romance"}, []string{"romance"}},
		{"nil", nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pre.NormalizeGenres(tc.in))
		})
	}
}

func TestPreprocessor_AddAlias(t *testing.T) {
	pre := NewPreprocessor()

	pre.AddAlias("Grimdark", "fantasy")
	assert.Equal(t, []string{"fantasy"}, pre.NormalizeGenres([]string{"grimdark"}))

	// Targets outside the standard vocabulary are ignored.
	pre.AddAlias("weird", "not-a-genre")
	assert.NotEqual(t, []string{"not-a-genre"}, pre.NormalizeGenres([]string{"weird"}))
}

func TestPreprocessor_NormalizeCopies(t *testing.T) {
	pre := NewPreprocessor()
	book := &core.Book{
		ID:     "1",
		Title:  "Dune",
		Author: "Frank Herbert",
		Genres: []string{"Sci-Fi", "Classics"},
	}

	normalized := pre.Normalize(book)
	assert.Equal(t, []string{"science-fiction", "classics"}, normalized.Genres)
	assert.Equal(t, []string{"Sci-Fi", "Classics"}, book.Genres)
	assert.Equal(t, book.Title, normalized.Title)
}

func TestPreprocessor_SearchText(t *testing.T) {
	pre := NewPreprocessor()
	book := &core.Book{
		ID:          "1",
		Title:       "The Final Empire",
		Author:      "Brandon Sanderson",
		Genres:      []string{"fantasy", "fiction"},
		Series:      "Mistborn",
		Description: "A thief discovers her powers.",
	}

	text := pre.SearchText(book)
	assert.Contains(t, text, "The Final Empire")
	assert.Contains(t, text, "Brandon Sanderson")
	assert.Contains(t, text, "fantasy fiction")
	assert.Contains(t, text, "Mistborn")
	assert.Contains(t, text, "A thief discovers her powers.")

	bare := pre.SearchText(&core.Book{Title: "Untitled", Author: "Anonymous"})
	assert.Equal(t, "Untitled. Anonymous", bare)
}

func TestPreprocessor_Document(t *testing.T) {
	pre := NewPreprocessor()
	book := &core.Book{
		ID:            "42",
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genres:        []string{"Sci-Fi"},
		Description:   "Desert planet politics.",
		AverageRating: 4.2,
		RatingsCount:  800000,
		Language:      "en",
	}

	doc := pre.Document(book)
	require.NotNil(t, doc)
	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "Desert planet politics.", doc.Text)
	assert.Nil(t, doc.Embedding)

	rebuilt, err := core.BookFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"science-fiction"}, rebuilt.Genres)
	assert.Equal(t, "Dune", rebuilt.Title)
}

func TestGenreDistance(t *testing.T) {
	assert.Equal(t, 0.0, genreDistance("fantasy", "fantasy"))
	assert.Equal(t, 1.0, genreDistance("", ""))
	assert.Less(t, genreDistance("mistery", "mystery"), genreDistance("mistery", "technology"))
}
