package ingestion

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/shelfwise/shelfwise/core"
)

// standardGenres is the controlled vocabulary every raw genre label maps
// into.
var standardGenres = []string{
	"fiction",
	"non-fiction",
	"mystery",
	"thriller",
	"romance",
	"science-fiction",
	"fantasy",
	"horror",
	"historical-fiction",
	"literary-fiction",
	"young-adult",
	"children",
	"biography",
	"history",
	"science",
	"technology",
	"business",
	"self-help",
	"poetry",
	"drama",
	"comedy",
	"adventure",
	"crime",
	"contemporary",
	"classics",
}

// genreAliases maps common raw labels straight to a standard genre, skipping
// the distance search.
var genreAliases = map[string]string{
	"sci-fi":       "science-fiction",
	"sf":           "science-fiction",
	"scifi":        "science-fiction",
	"ya":           "young-adult",
	"biographical": "biography",
	"biographies":  "biography",
	"historic":     "history",
	"historical":   "history",
	"tech":         "technology",
	"computers":    "technology",
	"programming":  "technology",
	"romance":      "romance",
	"romantic":     "romance",
	"love":         "romance",
	"mystery":      "mystery",
	"mysteries":    "mystery",
	"detective":    "mystery",
}

// Preprocessor normalizes raw catalog records before indexing. Genre labels
// are mapped into the standard vocabulary by alias lookup, exact match, or
// closest match under normalized edit distance.
type Preprocessor struct {
	aliases map[string]string
}

// NewPreprocessor creates a preprocessor with the built-in alias table.
func NewPreprocessor() *Preprocessor {
	aliases := make(map[string]string, len(genreAliases))
	for raw, mapped := range genreAliases {
		aliases[raw] = mapped
	}
	return &Preprocessor{aliases: aliases}
}

// AddAlias registers a custom raw-to-standard genre mapping. The mapping is
// ignored if the target is not a standard genre.
func (p *Preprocessor) AddAlias(raw, standard string) {
	for _, genre := range standardGenres {
		if genre == standard {
			p.aliases[strings.ToLower(raw)] = standard
			return
		}
	}
}

// NormalizeGenres maps each raw genre label to its standard genre,
// preserving order and dropping duplicates.
func (p *Preprocessor) NormalizeGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(genres))
	seen := make(map[string]bool, len(genres))
	for _, raw := range genres {
		genre := p.normalizeGenre(raw)
		if genre == "" || seen[genre] {
			continue
		}
		seen[genre] = true
		normalized = append(normalized, genre)
	}
	return normalized
}

func (p *Preprocessor) normalizeGenre(raw string) string {
	cleaned := foldGenre(raw)
	if cleaned == "" {
		return ""
	}
	if mapped, ok := p.aliases[cleaned]; ok {
		return mapped
	}
	for _, genre := range standardGenres {
		if genre == cleaned {
			return genre
		}
	}
	return closestGenre(cleaned)
}

// closestGenre returns the standard genre with the smallest normalized edit
// distance to the raw label.
func closestGenre(cleaned string) string {
	closest := standardGenres[0]
	minDistance := genreDistance(cleaned, closest)
	for _, genre := range standardGenres[1:] {
		if d := genreDistance(cleaned, genre); d < minDistance {
			minDistance = d
			closest = genre
		}
	}
	return closest
}

// genreDistance is the Levenshtein distance between two labels normalized by
// the length of the longer one, so short labels do not win on raw distance.
func genreDistance(a, b string) float64 {
	distance := levenshtein.ComputeDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return float64(distance) / float64(maxLen)
}

// foldGenre lowercases a raw label and strips punctuation other than the
// hyphens standard genres use.
func foldGenre(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsPunct(r) && r != '-' {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteRune('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize returns a copy of the book with its genres mapped into the
// standard vocabulary. The input book is not modified.
func (p *Preprocessor) Normalize(book *core.Book) *core.Book {
	normalized := *book
	normalized.Genres = p.NormalizeGenres(book.Genres)
	return &normalized
}

// SearchText combines a book's descriptive fields into the text the
// embedding is computed over.
func (p *Preprocessor) SearchText(book *core.Book) string {
	parts := make([]string, 0, 5)
	parts = append(parts, book.Title, book.Author)
	if len(book.Genres) > 0 {
		parts = append(parts, strings.Join(book.Genres, " "))
	}
	if book.Series != "" {
		parts = append(parts, book.Series)
	}
	if book.Description != "" {
		parts = append(parts, book.Description)
	}
	return strings.Join(parts, ". ")
}

// Document builds the stored document for a book: normalized genres, full
// metadata, no embedding.
func (p *Preprocessor) Document(book *core.Book) *core.Document {
	return core.DocumentFromBook(p.Normalize(book))
}
