package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBook() *Book {
	return &Book{
		ID:              "book-1",
		Title:           "The Way of Kings",
		Author:          "Brandon Sanderson",
		Genres:          []string{"fantasy", "adventure"},
		Description:     "An epic fantasy about storms and oaths.",
		PageCount:       1007,
		AverageRating:   4.6,
		RatingsCount:    350000,
		ReviewCount:     21000,
		Series:          "The Stormlight Archive",
		Language:        "eng",
		Publisher:       "Tor Books",
		PublicationDate: "August 31, 2010",
		ISBN13:          "9780765326355",
		IsEbook:         true,
	}
}

func TestBookDerivedMetrics(t *testing.T) {
	book := sampleBook()

	t.Run("popularity score", func(t *testing.T) {
		// Ratings volume saturates at 10000, so the volume term is 0.7.
		want := (1.0*0.7 + (4.6/5.0)*0.3) * 100.0
		assert.InDelta(t, want, book.PopularityScore(), 1e-9)
	})

	t.Run("popularity score below saturation", func(t *testing.T) {
		b := &Book{AverageRating: 4.0, RatingsCount: 5000}
		want := (0.5*0.7 + (4.0/5.0)*0.3) * 100.0
		assert.InDelta(t, want, b.PopularityScore(), 1e-9)
	})

	t.Run("highly rated", func(t *testing.T) {
		assert.True(t, book.IsHighlyRated())

		lowRated := &Book{AverageRating: 3.9, RatingsCount: 100000}
		assert.False(t, lowRated.IsHighlyRated())

		fewRatings := &Book{AverageRating: 4.9, RatingsCount: 12}
		assert.False(t, fewRatings.IsHighlyRated())
	})

	t.Run("engagement score", func(t *testing.T) {
		assert.Greater(t, book.EngagementScore(), 0.0)

		empty := &Book{}
		assert.Equal(t, 0.0, empty.EngagementScore())
	})

	t.Run("reading level", func(t *testing.T) {
		assert.Equal(t, "Expert", book.ReadingLevel())
		assert.Equal(t, "Easy", (&Book{PageCount: 80}).ReadingLevel())
		assert.Equal(t, "Intermediate", (&Book{PageCount: 250}).ReadingLevel())
		assert.Equal(t, "Advanced", (&Book{PageCount: 400}).ReadingLevel())
	})
}

func TestBookPublicationYear(t *testing.T) {
	tests := []struct {
		name string
		date string
		want int
	}{
		{"full date", "August 31, 2010", 2010},
		{"year only", "1965", 1965},
		{"iso date", "2019-05-14", 2019},
		{"no year", "unknown", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{PublicationDate: tt.date}
			assert.Equal(t, tt.want, b.PublicationYear())
		})
	}
}

func TestBookDocumentRoundTrip(t *testing.T) {
	book := sampleBook()

	doc := DocumentFromBook(book)
	assert.Equal(t, book.ID, doc.ID)
	assert.Equal(t, book.Description, doc.Text)
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := BookFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, book, got)
}

func TestBookDocumentRoundTripWithoutSeries(t *testing.T) {
	book := sampleBook()
	book.Series = ""

	doc := DocumentFromBook(book)
	v, ok := doc.Metadata.Get(MetaSeries)
	require.True(t, ok)
	assert.True(t, v.IsNull())

	got, err := BookFromDocument(doc)
	require.NoError(t, err)
	assert.Empty(t, got.Series)
}

func TestBookFromDocumentFailures(t *testing.T) {
	t.Run("missing required key", func(t *testing.T) {
		doc := DocumentFromBook(sampleBook())
		doc.Metadata = Metadata{} // wipe everything

		_, err := BookFromDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidBook)
		assert.ErrorIs(t, err, ErrMetadataMissing)
	})

	t.Run("wrong type", func(t *testing.T) {
		doc := DocumentFromBook(sampleBook())
		doc.Metadata.Set(MetaAverageRating, String("four and a half"))

		_, err := BookFromDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidBook)
		assert.ErrorIs(t, err, ErrMetadataType)
	})
}

func TestIDFromContent(t *testing.T) {
	a := IDFromContent("the left hand of darkness")
	b := IDFromContent("the left hand of darkness")
	c := IDFromContent("the dispossessed")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
