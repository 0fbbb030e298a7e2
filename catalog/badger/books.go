package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfwise/shelfwise/catalog"
	"github.com/shelfwise/shelfwise/core"
)

// BookRepository implements catalog.BookRepository for BadgerDB.
type BookRepository struct {
	backend *Backend
}

var _ catalog.BookRepository = (*BookRepository)(nil)

// NewBookRepository creates a new BookRepository over an open backend.
func NewBookRepository(backend *Backend) *BookRepository {
	return &BookRepository{backend: backend}
}

// Close releases repository resources. The backend itself is closed by its
// owner.
func (r *BookRepository) Close() error {
	return nil
}

// AddBooks stores books, replacing any existing book with the same id.
func (r *BookRepository) AddBooks(ctx context.Context, books ...*core.Book) error {
	for _, book := range books {
		if err := core.ValidateBook(book); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, book := range books {
			// Replacement may move the book between index entries.
			old, err := r.readBook(tx, makeBookKey(book.ID))
			if err != nil {
				return err
			}
			if old != nil {
				if err := r.deleteIndexEntries(tx, old); err != nil {
					return err
				}
			}
			if err := r.writeBook(tx, book); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateBooks updates existing books. Returns ErrNotFound if any book
// doesn't exist.
func (r *BookRepository) UpdateBooks(ctx context.Context, books ...*core.Book) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, book := range books {
			old, err := r.readBook(tx, makeBookKey(book.ID))
			if err != nil {
				return err
			}
			if old == nil {
				return catalog.ErrNotFound
			}
			if err := r.deleteIndexEntries(tx, old); err != nil {
				return err
			}
			if err := r.writeBook(tx, book); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteBooks removes books and their index entries by id. Returns
// ErrNotFound if any book doesn't exist.
func (r *BookRepository) DeleteBooks(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeBookKey(id)
			book, err := r.readBook(tx, key)
			if err != nil {
				return err
			}
			if book == nil {
				return catalog.ErrNotFound
			}
			if err := r.deleteIndexEntries(tx, book); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetBook retrieves a single book by id.
func (r *BookRepository) GetBook(ctx context.Context, id string) (*core.Book, error) {
	var book *core.Book
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		book, err = r.readBook(tx, makeBookKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, catalog.ErrNotFound
	}
	return book, nil
}

// GetBooks retrieves multiple books by id, skipping missing ones.
func (r *BookRepository) GetBooks(ctx context.Context, ids ...string) ([]*core.Book, error) {
	books := make([]*core.Book, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			book, err := r.readBook(tx, makeBookKey(id))
			if err != nil {
				return err
			}
			if book != nil {
				books = append(books, book)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ListBooks retrieves every book in the catalog.
func (r *BookRepository) ListBooks(ctx context.Context) ([]*core.Book, error) {
	var books []*core.Book
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix + keySep)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				book, err := catalog.UnmarshalBook(val)
				if err != nil {
					return err
				}
				books = append(books, book)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the number of books in the catalog.
func (r *BookRepository) CountBooks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix + keySep)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// BooksByAuthor retrieves the books written by an author via the author
// index.
func (r *BookRepository) BooksByAuthor(ctx context.Context, author string) ([]*core.Book, error) {
	return r.scanIndex(makePartialAuthorKey(author))
}

// BooksBySeries retrieves the books belonging to a series via the series
// index.
func (r *BookRepository) BooksBySeries(ctx context.Context, series string) ([]*core.Book, error) {
	return r.scanIndex(makePartialSeriesKey(series))
}

// scanIndex walks a secondary-index prefix and resolves each entry's book.
func (r *BookRepository) scanIndex(prefix []byte) ([]*core.Book, error) {
	var books []*core.Book
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id string
			err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}
			book, err := r.readBook(tx, makeBookKey(id))
			if err != nil {
				return err
			}
			if book == nil {
				// Dangling index entry; the primary record wins.
				r.backend.logger.Warn("index entry without a book record", "id", id)
				continue
			}
			books = append(books, book)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) readBook(tx *badger.Txn, key []byte) (*core.Book, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var book *core.Book
	err = item.Value(func(val []byte) error {
		var err error
		book, err = catalog.UnmarshalBook(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *BookRepository) writeBook(tx *badger.Txn, book *core.Book) error {
	if err := tx.Set(makeBookKey(book.ID), catalog.MarshalBook(book)); err != nil {
		return err
	}
	if err := tx.Set(makeAuthorKey(book.Author, book.ID), []byte(book.ID)); err != nil {
		return err
	}
	if book.Series != "" {
		if err := tx.Set(makeSeriesKey(book.Series, book.ID), []byte(book.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (r *BookRepository) deleteIndexEntries(tx *badger.Txn, book *core.Book) error {
	if err := tx.Delete(makeAuthorKey(book.Author, book.ID)); err != nil {
		return err
	}
	if book.Series != "" {
		if err := tx.Delete(makeSeriesKey(book.Series, book.ID)); err != nil {
			return err
		}
	}
	return nil
}
