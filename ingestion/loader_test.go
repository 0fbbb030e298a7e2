package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/shelfwise/shelfwise/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogHeader = "id,title,author,genres,description,page_count,average_rating,ratings_count,review_count,series,language,publisher,publication_date,isbn13,is_ebook"

func catalogRow(id string, overrides map[int]string) string {
	fields := []string{
		id,
		"The Final Empire",
		"Brandon Sanderson",
		"\"['Fantasy', 'Fiction']\"",
		"A thief discovers she has the powers of a Mistborn.",
		"541",
		"4.45",
		"500000",
		"21000",
		"Mistborn",
		"en",
		"Tor Books",
		"2006-07-17",
		"9780765311788",
		"false",
	}
	for i, v := range overrides {
		fields[i] = v
	}
	return strings.Join(fields, ",")
}

func loadRows(t *testing.T, filters Filters, rows ...string) []*core.Book {
	t.Helper()
	loader, err := NewLoader(WithFilters(filters))
	require.NoError(t, err)

	input := catalogHeader + "\n" + strings.Join(rows, "\n") + "\n"
	books, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	return books
}

func TestLoader_ParsesFullRow(t *testing.T) {
	books := loadRows(t, Filters{}, catalogRow("1", nil))
	require.Len(t, books, 1)

	book := books[0]
	assert.Equal(t, "1", book.ID)
	assert.Equal(t, "The Final Empire", book.Title)
	assert.Equal(t, "Brandon Sanderson", book.Author)
	assert.Equal(t, []string{"Fantasy", "Fiction"}, book.Genres)
	assert.Equal(t, 541, book.PageCount)
	assert.Equal(t, 4.45, book.AverageRating)
	assert.Equal(t, 500000, book.RatingsCount)
	assert.Equal(t, 21000, book.ReviewCount)
	assert.Equal(t, "Mistborn", book.Series)
	assert.Equal(t, "en", book.Language)
	assert.Equal(t, "Tor Books", book.Publisher)
	assert.Equal(t, "2006-07-17", book.PublicationDate)
	assert.Equal(t, "9780765311788", book.ISBN13)
	assert.False(t, book.IsEbook)
	assert.Equal(t, 2006, book.PublicationYear())
}

func TestLoader_SkipsMalformedRows(t *testing.T) {
	books := loadRows(t, Filters{},
		catalogRow("1", nil),
		"2,too,few,columns",
		catalogRow("", map[int]string{1: ""}),
		catalogRow("3", nil),
	)
	require.Len(t, books, 2)
	assert.Equal(t, "1", books[0].ID)
	assert.Equal(t, "3", books[1].ID)
}

func TestLoader_DerivesIDFromTitle(t *testing.T) {
	books := loadRows(t, Filters{}, catalogRow("", nil))
	require.Len(t, books, 1)
	assert.Equal(t, core.IDFromContent("The Final Empire|Brandon Sanderson"), books[0].ID)
	assert.NotEmpty(t, books[0].ID)
}

func TestLoader_NumericFallbacks(t *testing.T) {
	books := loadRows(t, Filters{}, catalogRow("1", map[int]string{
		5: "not-a-number",
		6: "",
		7: "many",
	}))
	require.Len(t, books, 1)

	assert.Equal(t, 0, books[0].PageCount)
	assert.Equal(t, 0.0, books[0].AverageRating)
	assert.Equal(t, 0, books[0].RatingsCount)
}

func TestLoader_EmptyGenresAndSeries(t *testing.T) {
	books := loadRows(t, Filters{}, catalogRow("1", map[int]string{
		3: "[]",
		9: "",
	}))
	require.Len(t, books, 1)

	assert.Empty(t, books[0].Genres)
	assert.Empty(t, books[0].Series)
}

func TestLoader_ISBNExtraction(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare digits", "9780765311788", "9780765311788"},
		{"embedded", "ISBN 9780765311788 (hardcover)", "9780765311788"},
		{"too short", "076531178", ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseISBN13(tc.raw))
		})
	}
}

func TestLoader_Filters(t *testing.T) {
	filters := Filters{
		MinRatingsCount: 1000,
		Language:        "en",
		YearStart:       1900,
		YearEnd:         2025,
	}

	books := loadRows(t, filters,
		catalogRow("keep", nil),
		catalogRow("unpopular", map[int]string{7: "50"}),
		catalogRow("french", map[int]string{10: "fr"}),
		catalogRow("ancient", map[int]string{12: "1850-01-01"}),
	)
	require.Len(t, books, 1)
	assert.Equal(t, "keep", books[0].ID)
}

func TestLoader_ZeroFiltersDisableClauses(t *testing.T) {
	books := loadRows(t, Filters{},
		catalogRow("1", map[int]string{7: "0", 10: "fr", 12: "no year here"}),
	)
	assert.Len(t, books, 1)
}

func TestLoader_MissingFile(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.LoadFile("/does/not/exist.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDataLoad))
}

func TestLoader_QuotedCommas(t *testing.T) {
	books := loadRows(t, Filters{}, catalogRow("1", map[int]string{
		4: "\"A thief, a crew, and an empire.\"",
	}))
	require.Len(t, books, 1)
	assert.Equal(t, "A thief, a crew, and an empire.", books[0].Description)
}
