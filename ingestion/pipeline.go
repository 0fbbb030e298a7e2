package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/shelfwise/shelfwise/ai"
	"github.com/shelfwise/shelfwise/catalog"
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/store"
)

// DefaultBatchSize is the number of books embedded per worker task.
const DefaultBatchSize = 32

// Pipeline orchestrates catalog ingestion: books are normalized, written to
// the catalog repository, embedded in concurrent batches, and added to the
// vector store.
type Pipeline struct {
	books     catalog.BookRepository
	vectors   *store.VectorStore
	embedder  ai.Embedder
	pre       *Preprocessor
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many books each embedding task covers.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	books catalog.BookRepository,
	vectors *store.VectorStore,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if books == nil {
		return nil, ErrBookRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		books:     books,
		vectors:   vectors,
		embedder:  provider.Embedder(),
		pre:       NewPreprocessor(),
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Preprocessor returns the pipeline's genre preprocessor, so callers can
// register custom genre aliases before ingesting.
func (p *Pipeline) Preprocessor() *Preprocessor {
	return p.pre
}

// IngestFile loads a catalog CSV file and ingests every book that passes
// the loader's filters. Returns the number of books ingested.
func (p *Pipeline) IngestFile(ctx context.Context, path string, loaderOpts ...LoaderOption) (int, error) {
	loaderOpts = append([]LoaderOption{WithLoaderLogger(p.logger)}, loaderOpts...)
	loader, err := NewLoader(loaderOpts...)
	if err != nil {
		return 0, err
	}

	books, err := loader.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := p.IngestBooks(ctx, books...); err != nil {
		return 0, err
	}
	return len(books), nil
}

// IngestBooks normalizes the books, writes them to the catalog, then embeds
// them in concurrent batches and adds the resulting documents to the vector
// store. Batches are independent: a failed batch is reported in the joined
// error while the others still land.
func (p *Pipeline) IngestBooks(ctx context.Context, books ...*core.Book) error {
	if len(books) == 0 {
		return nil
	}

	normalized := make([]*core.Book, len(books))
	for i, book := range books {
		normalized[i] = p.pre.Normalize(book)
	}

	if err := p.books.AddBooks(ctx, normalized...); err != nil {
		return err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var batchErrs []error

	for start := 0; start < len(normalized); start += p.batchSize {
		end := min(start+p.batchSize, len(normalized))
		batch := normalized[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				p.logger.Error("error embedding batch", "books", len(batch), "err", err)
				mu.Lock()
				batchErrs = append(batchErrs, err)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			batchErrs = append(batchErrs, submitErr)
			mu.Unlock()
		}
	}

	wg.Wait()
	if len(batchErrs) > 0 {
		return errors.Join(batchErrs...)
	}

	p.logger.Info("ingested books", "books", len(normalized))
	return nil
}

// embedBatch embeds one batch of books and adds the documents to the vector
// store.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Book) error {
	texts := make([]string, len(batch))
	for i, book := range batch {
		texts[i] = p.pre.SearchText(book)
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding result mismatch: expected %d, received %d", len(batch), len(embeddings))
	}

	docs := make([]*core.Document, len(batch))
	for i, book := range batch {
		doc := core.DocumentFromBook(book)
		doc.Embedding = core.NormalizeVector(embeddings[i])
		docs[i] = doc
	}

	return p.vectors.Add(docs...)
}

// Release releases the worker pool. The pipeline must not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
