package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/shelfwise/core"
)

func ptr[T any](v T) *T { return &v }

func filterBook() *core.Book {
	return &core.Book{
		ID:              "b1",
		Title:           "The Final Empire",
		Author:          "Brandon Sanderson",
		Genres:          []string{"fantasy", "fiction"},
		Description:     "A thousand years ago evil won.",
		PageCount:       541,
		AverageRating:   4.5,
		RatingsCount:    500000,
		ReviewCount:     20000,
		Series:          "Mistborn",
		Language:        "eng",
		Publisher:       "Tor Books",
		PublicationDate: "7/17/2006",
		ISBN13:          "9780765311788",
		IsEbook:         true,
	}
}

func TestFilterMatches(t *testing.T) {
	book := filterBook()

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"nil filter admits everything", nil, true},
		{"empty filter admits everything", &Filter{}, true},
		{"matching genre", &Filter{Genres: []string{"fantasy"}}, true},
		{"one of several genres suffices", &Filter{Genres: []string{"horror", "fiction"}}, true},
		{"no matching genre", &Filter{Genres: []string{"horror"}}, false},
		{"min rating below", &Filter{MinRating: ptr(4.0)}, true},
		{"min rating above", &Filter{MinRating: ptr(4.8)}, false},
		{"min rating inclusive", &Filter{MinRating: ptr(4.5)}, true},
		{"max rating inclusive", &Filter{MaxRating: ptr(4.5)}, true},
		{"max rating below", &Filter{MaxRating: ptr(4.0)}, false},
		{"min ratings count met", &Filter{MinRatingsCount: ptr(100000)}, true},
		{"min ratings count unmet", &Filter{MinRatingsCount: ptr(600000)}, false},
		{"year range containing", &Filter{YearStart: ptr(2000), YearEnd: ptr(2010)}, true},
		{"year range before", &Filter{YearEnd: ptr(2005)}, false},
		{"year range after", &Filter{YearStart: ptr(2010)}, false},
		{"language match", &Filter{Language: ptr("eng")}, true},
		{"language mismatch", &Filter{Language: ptr("fre")}, false},
		{"ebook only on ebook", &Filter{EbookOnly: true}, true},
		{"author match", &Filter{Authors: []string{"Brandon Sanderson"}}, true},
		{"author mismatch", &Filter{Authors: []string{"Robin Hobb"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(book))
		})
	}
}

func TestFilterConjunction(t *testing.T) {
	book := filterBook()

	// Every clause passes.
	f := &Filter{
		Genres:    []string{"fantasy"},
		MinRating: ptr(4.0),
		Language:  ptr("eng"),
	}
	assert.True(t, f.Matches(book))

	// A single failing clause excludes the candidate.
	f.MinRating = ptr(4.8)
	assert.False(t, f.Matches(book))
}

func TestFilterEbookOnly(t *testing.T) {
	book := filterBook()
	book.IsEbook = false
	assert.False(t, (&Filter{EbookOnly: true}).Matches(book))
	assert.True(t, (&Filter{}).Matches(book))
}

func TestFilterWithAuthor(t *testing.T) {
	t.Run("nil base", func(t *testing.T) {
		var f *Filter
		got := f.withAuthor("Ursula K. Le Guin")
		assert.Equal(t, []string{"Ursula K. Le Guin"}, got.Authors)
	})

	t.Run("extends without mutating the base", func(t *testing.T) {
		base := &Filter{Authors: []string{"N.K. Jemisin"}, MinRating: ptr(4.0)}
		got := base.withAuthor("Ursula K. Le Guin")
		assert.Equal(t, []string{"N.K. Jemisin", "Ursula K. Le Guin"}, got.Authors)
		assert.Equal(t, []string{"N.K. Jemisin"}, base.Authors)
		assert.Equal(t, 4.0, *got.MinRating)
	})
}
