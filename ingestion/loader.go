package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/shelfwise/shelfwise/core"
)

// catalogColumns is the number of columns a catalog CSV row must carry:
// id, title, author, genres, description, page_count, average_rating,
// ratings_count, review_count, series, language, publisher,
// publication_date, isbn13, is_ebook.
const catalogColumns = 15

var isbn13Pattern = regexp.MustCompile(`\d{13}`)

// Filters restricts which catalog rows a Loader keeps. A zero value for any
// field disables that clause.
type Filters struct {
	MinRatingsCount int
	Language        string
	YearStart       int
	YearEnd         int
}

// DefaultFilters returns the standard catalog filters: at least 100 ratings,
// English language, published between 1900 and 2025.
func DefaultFilters() Filters {
	return Filters{
		MinRatingsCount: 100,
		Language:        "en",
		YearStart:       1900,
		YearEnd:         2025,
	}
}

// Loader reads catalog CSV files into Books. Malformed rows are logged and
// skipped; rows that fail the configured filters are dropped silently.
type Loader struct {
	filters Filters
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithFilters replaces the loader's row filters.
func WithFilters(filters Filters) LoaderOption {
	return func(l *Loader) error {
		l.filters = filters
		return nil
	}
}

// WithLoaderLogger sets a custom logger. Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a catalog CSV loader with DefaultFilters.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	l := &Loader{
		filters: DefaultFilters(),
		logger:  slog.Default().With("component", "loader"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// LoadFile reads a catalog CSV file from disk.
func (l *Loader) LoadFile(path string) ([]*core.Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", core.ErrDataLoad, path, err)
	}
	defer file.Close()

	return l.Load(file)
}

// Load reads catalog CSV rows from r. The first row is treated as a header
// and skipped. Rows that cannot be parsed are logged and skipped; a read
// failure aborts the load.
func (l *Loader) Load(r io.Reader) ([]*core.Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var books []*core.Book
	var skipped int
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row %d: %w", core.ErrDataLoad, row, err)
		}
		row++
		if row == 1 {
			continue
		}

		book, err := parseRow(record)
		if err != nil {
			l.logger.Warn("skipping malformed catalog row", "row", row, "err", err)
			skipped++
			continue
		}

		if l.passesFilters(book) {
			books = append(books, book)
		}
	}

	l.logger.Info("catalog load complete",
		"rows", row, "books", len(books), "skipped", skipped)
	return books, nil
}

func (l *Loader) passesFilters(book *core.Book) bool {
	if l.filters.MinRatingsCount > 0 && book.RatingsCount < l.filters.MinRatingsCount {
		return false
	}
	if l.filters.Language != "" && book.Language != l.filters.Language {
		return false
	}
	if l.filters.YearStart > 0 && book.PublicationYear() < l.filters.YearStart {
		return false
	}
	if l.filters.YearEnd > 0 && book.PublicationYear() > l.filters.YearEnd {
		return false
	}
	return true
}

func parseRow(record []string) (*core.Book, error) {
	if len(record) < catalogColumns {
		return nil, fmt.Errorf("insufficient columns: have %d, want %d", len(record), catalogColumns)
	}

	id := strings.TrimSpace(record[0])
	title := cleanString(record[1])
	author := cleanString(record[2])
	if id == "" {
		if title == "" {
			return nil, fmt.Errorf("row has neither id nor title")
		}
		id = core.IDFromContent(title + "|" + author)
	}

	return &core.Book{
		ID:              id,
		Title:           title,
		Author:          author,
		Genres:          parseGenres(record[3]),
		Description:     cleanString(record[4]),
		PageCount:       parseInteger(record[5]),
		AverageRating:   parseRating(record[6]),
		RatingsCount:    parseInteger(record[7]),
		ReviewCount:     parseInteger(record[8]),
		Series:          cleanString(record[9]),
		Language:        cleanString(record[10]),
		Publisher:       cleanString(record[11]),
		PublicationDate: strings.TrimSpace(record[12]),
		ISBN13:          parseISBN13(record[13]),
		IsEbook:         strings.TrimSpace(record[14]) == "true",
	}, nil
}

// cleanString strips surrounding quotes and whitespace from a CSV field.
func cleanString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// parseGenres parses a bracketed, comma-separated genre list such as
// ['Fantasy', 'Fiction']. Empty lists and bare [] yield nil.
func parseGenres(s string) []string {
	s = cleanString(s)
	if s == "" || s == "[]" {
		return nil
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var genres []string
	for _, part := range strings.Split(s, ",") {
		genre := strings.Trim(cleanString(part), "'")
		if genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}

// parseRating parses an average rating, defaulting to 0 on any failure.
func parseRating(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return rating
}

// parseInteger parses a count field, defaulting to 0 on any failure.
func parseInteger(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseISBN13 extracts the first 13-digit run from an ISBN field. Returns
// the empty string if the field carries none.
func parseISBN13(s string) string {
	return isbn13Pattern.FindString(cleanString(s))
}
