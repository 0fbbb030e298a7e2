package catalog

import (
	"context"

	"github.com/shelfwise/shelfwise/core"
)

// BookRepository provides durable storage for the book catalog.
// Implementations must be thread-safe and support concurrent access.
type BookRepository interface {
	// AddBooks stores one or more books, replacing any existing book with
	// the same id.
	AddBooks(ctx context.Context, books ...*core.Book) error

	// UpdateBooks updates existing books.
	// Returns ErrNotFound if any book doesn't exist.
	UpdateBooks(ctx context.Context, books ...*core.Book) error

	// DeleteBooks removes books by their ids.
	// Also removes associated index entries.
	// Returns ErrNotFound if any book doesn't exist.
	DeleteBooks(ctx context.Context, ids ...string) error

	// GetBook retrieves a single book by id.
	// Returns ErrNotFound if the book doesn't exist.
	GetBook(ctx context.Context, id string) (*core.Book, error)

	// GetBooks retrieves multiple books by their ids.
	// Returns only the books that exist (no error for missing books).
	GetBooks(ctx context.Context, ids ...string) ([]*core.Book, error)

	// ListBooks retrieves every book in the catalog.
	ListBooks(ctx context.Context) ([]*core.Book, error)

	// CountBooks returns the number of books in the catalog.
	CountBooks(ctx context.Context) (int, error)

	// BooksByAuthor retrieves the books written by an author, via the
	// author index.
	BooksByAuthor(ctx context.Context, author string) ([]*core.Book, error)

	// BooksBySeries retrieves the books belonging to a series, via the
	// series index.
	BooksBySeries(ctx context.Context, series string) ([]*core.Book, error)

	// Close closes the catalog backend and releases resources.
	Close() error
}
