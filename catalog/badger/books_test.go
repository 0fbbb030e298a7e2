package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/catalog"
	"github.com/shelfwise/shelfwise/core"
)

func memRepo(t *testing.T) catalog.BookRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func fixtureBook(id, author, series string) *core.Book {
	return &core.Book{
		ID:              id,
		Title:           "Title " + id,
		Author:          author,
		Genres:          []string{"fantasy"},
		Description:     "Description of " + id,
		PageCount:       400,
		AverageRating:   4.2,
		RatingsCount:    1500,
		ReviewCount:     120,
		Series:          series,
		Language:        "eng",
		Publisher:       "Shelfwise Press",
		PublicationDate: "2019",
		ISBN13:          "9781111111111",
		IsEbook:         true,
	}
}

func TestBookRepositoryAddGet(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	want := fixtureBook("b1", "Robin Hobb", "Farseer")
	require.NoError(t, repo.AddBooks(ctx, want))

	got, err := repo.GetBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	t.Run("missing book", func(t *testing.T) {
		_, err := repo.GetBook(ctx, "nope")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("invalid book rejected", func(t *testing.T) {
		bad := fixtureBook("b2", "A", "")
		bad.AverageRating = 9
		err := repo.AddBooks(ctx, bad)
		assert.ErrorIs(t, err, core.ErrInvalidBook)
	})
}

func TestBookRepositoryReplaceMovesIndexEntries(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	book := fixtureBook("b1", "Old Author", "Old Series")
	require.NoError(t, repo.AddBooks(ctx, book))

	renamed := fixtureBook("b1", "New Author", "")
	require.NoError(t, repo.AddBooks(ctx, renamed))

	byOld, err := repo.BooksByAuthor(ctx, "Old Author")
	require.NoError(t, err)
	assert.Empty(t, byOld)

	byNew, err := repo.BooksByAuthor(ctx, "New Author")
	require.NoError(t, err)
	require.Len(t, byNew, 1)
	assert.Equal(t, "b1", byNew[0].ID)

	bySeries, err := repo.BooksBySeries(ctx, "Old Series")
	require.NoError(t, err)
	assert.Empty(t, bySeries)
}

func TestBookRepositoryUpdate(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	book := fixtureBook("b1", "Author", "")
	require.NoError(t, repo.AddBooks(ctx, book))

	book.AverageRating = 4.8
	require.NoError(t, repo.UpdateBooks(ctx, book))

	got, err := repo.GetBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 4.8, got.AverageRating)

	t.Run("missing book", func(t *testing.T) {
		err := repo.UpdateBooks(ctx, fixtureBook("ghost", "Nobody", ""))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestBookRepositoryDelete(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddBooks(ctx, fixtureBook("b1", "Author", "Saga")))
	require.NoError(t, repo.DeleteBooks(ctx, "b1"))

	_, err := repo.GetBook(ctx, "b1")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	byAuthor, err := repo.BooksByAuthor(ctx, "Author")
	require.NoError(t, err)
	assert.Empty(t, byAuthor)

	t.Run("deleting again", func(t *testing.T) {
		err := repo.DeleteBooks(ctx, "b1")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestBookRepositoryListCount(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddBooks(ctx,
		fixtureBook("b1", "A", ""),
		fixtureBook("b2", "B", ""),
		fixtureBook("b3", "C", ""),
	))

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)

	count, err := repo.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBookRepositoryGetBooksSkipsMissing(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddBooks(ctx, fixtureBook("b1", "A", "")))

	books, err := repo.GetBooks(ctx, "b1", "missing", "b1")
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestBookRepositoryByAuthorAndSeries(t *testing.T) {
	repo := memRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddBooks(ctx,
		fixtureBook("b1", "Robin Hobb", "Farseer"),
		fixtureBook("b2", "Robin Hobb", "Liveship Traders"),
		fixtureBook("b3", "Joe Abercrombie", "The First Law"),
	))

	byAuthor, err := repo.BooksByAuthor(ctx, "Robin Hobb")
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	bySeries, err := repo.BooksBySeries(ctx, "The First Law")
	require.NoError(t, err)
	require.Len(t, bySeries, 1)
	assert.Equal(t, "b3", bySeries[0].ID)

	t.Run("unknown author", func(t *testing.T) {
		books, err := repo.BooksByAuthor(ctx, "Nobody")
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}
