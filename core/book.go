package core

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Thresholds for derived book metrics.
const (
	// HighRatingThreshold is the minimum average rating for a book to count
	// as highly rated.
	HighRatingThreshold = 4.0

	// MinRatingsForReliable is the minimum ratings count for a rating to be
	// considered reliable.
	MinRatingsForReliable = 100

	// VeryPopularRatingsCount is the ratings volume treated as maximal when
	// normalizing popularity.
	VeryPopularRatingsCount = 10000
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Book is a catalog item. Engagement, popularity, the highly-rated flag, and
// the publication year are derived on demand, never stored.
type Book struct {
	ID              string
	Title           string
	Author          string
	Genres          []string
	Description     string
	PageCount       int
	AverageRating   float64
	RatingsCount    int
	ReviewCount     int
	Series          string // empty when the book is not part of a series
	Language        string
	Publisher       string
	PublicationDate string // free-form; a 4-digit year is extracted when present
	ISBN13          string
	IsEbook         bool
}

// EngagementScore blends the rating (weighted by ratings volume) with the
// review-to-rating ratio.
func (b *Book) EngagementScore() float64 {
	ratingWeight := math.Min(float64(b.RatingsCount)/float64(MinRatingsForReliable), 1.0)
	var reviewRatio float64
	if b.ReviewCount > 0 && b.RatingsCount > 0 {
		reviewRatio = float64(b.ReviewCount) / float64(b.RatingsCount)
	}
	return (b.AverageRating*ratingWeight + reviewRatio*5.0) / 2.0
}

// PopularityScore is a 0-100 blend of normalized ratings volume (weight 0.7)
// and normalized average rating (weight 0.3).
func (b *Book) PopularityScore() float64 {
	normalizedRatings := math.Min(float64(b.RatingsCount)/float64(VeryPopularRatingsCount), 1.0)
	return (normalizedRatings*0.7 + (b.AverageRating/5.0)*0.3) * 100.0
}

// IsHighlyRated reports whether the book has a reliably high rating.
func (b *Book) IsHighlyRated() bool {
	return b.AverageRating >= HighRatingThreshold && b.RatingsCount >= MinRatingsForReliable
}

// PublicationYear extracts the first 4-digit year from the publication date.
// Returns 0 if the date contains no year.
func (b *Book) PublicationYear() int {
	match := yearPattern.FindString(b.PublicationDate)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

// ReadingLevel buckets the book by page count.
func (b *Book) ReadingLevel() string {
	switch {
	case b.PageCount < 100:
		return "Easy"
	case b.PageCount < 300:
		return "Intermediate"
	case b.PageCount < 500:
		return "Advanced"
	default:
		return "Expert"
	}
}

// Metadata keys a stored document must carry to reconstruct a Book.
const (
	MetaTitle           = "title"
	MetaAuthor          = "author"
	MetaGenres          = "genres"
	MetaPageCount       = "page_count"
	MetaAverageRating   = "average_rating"
	MetaRatingsCount    = "ratings_count"
	MetaReviewCount     = "review_count"
	MetaSeries          = "series"
	MetaLanguage        = "language"
	MetaPublisher       = "publisher"
	MetaPublicationDate = "publication_date"
	MetaISBN13          = "isbn13"
	MetaIsEbook         = "is_ebook"
)

// BookFromDocument reconstructs a catalog item from a stored document's
// metadata. Fails if a required key is absent or has the wrong type; the
// series key may be absent or null.
func BookFromDocument(doc *Document) (*Book, error) {
	m := &doc.Metadata

	title, err := m.String(MetaTitle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	author, err := m.String(MetaAuthor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	genres, err := m.StringList(MetaGenres)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	pageCount, err := m.Int(MetaPageCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	rating, err := m.Number(MetaAverageRating)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	ratingsCount, err := m.Int(MetaRatingsCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	reviewCount, err := m.Int(MetaReviewCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	language, err := m.String(MetaLanguage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	publisher, err := m.String(MetaPublisher)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	pubDate, err := m.String(MetaPublicationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	isbn, err := m.String(MetaISBN13)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}
	isEbook, err := m.Bool(MetaIsEbook)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBook, err)
	}

	// Series is optional: absent or null both mean "no series".
	var series string
	if v, ok := m.Get(MetaSeries); ok && !v.IsNull() {
		series, err = v.AsString()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidBook, MetaSeries, err)
		}
	}

	return &Book{
		ID:              doc.ID,
		Title:           title,
		Author:          author,
		Genres:          genres,
		Description:     doc.Text,
		PageCount:       pageCount,
		AverageRating:   rating,
		RatingsCount:    ratingsCount,
		ReviewCount:     reviewCount,
		Series:          series,
		Language:        language,
		Publisher:       publisher,
		PublicationDate: pubDate,
		ISBN13:          isbn,
		IsEbook:         isEbook,
	}, nil
}

// DocumentFromBook builds the stored document for a catalog item. The
// searchable text is the description; all reconstructable fields go into
// metadata in a fixed order.
func DocumentFromBook(book *Book) *Document {
	var m Metadata
	m.Set(MetaTitle, String(book.Title))
	m.Set(MetaAuthor, String(book.Author))
	m.Set(MetaGenres, StringList(book.Genres))
	m.Set(MetaPageCount, Number(float64(book.PageCount)))
	m.Set(MetaAverageRating, Number(book.AverageRating))
	m.Set(MetaRatingsCount, Number(float64(book.RatingsCount)))
	m.Set(MetaReviewCount, Number(float64(book.ReviewCount)))
	if book.Series != "" {
		m.Set(MetaSeries, String(book.Series))
	} else {
		m.Set(MetaSeries, Null())
	}
	m.Set(MetaLanguage, String(book.Language))
	m.Set(MetaPublisher, String(book.Publisher))
	m.Set(MetaPublicationDate, String(book.PublicationDate))
	m.Set(MetaISBN13, String(book.ISBN13))
	m.Set(MetaIsEbook, Bool(book.IsEbook))

	return NewDocument(book.ID, book.Description, m, nil)
}
