// Copyright 2025 Shelfwise Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package shelfwise

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shelfwise/shelfwise/ai"
	"github.com/shelfwise/shelfwise/ai/openai"
	"github.com/shelfwise/shelfwise/catalog"
	"github.com/shelfwise/shelfwise/catalog/badger"
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/ingestion"
	"github.com/shelfwise/shelfwise/query"
	"github.com/shelfwise/shelfwise/store"
)

// DefaultDimension is the embedding dimension used when none is configured.
const DefaultDimension = 384

// Recommender composes the catalog repository, the vector store, and the
// query engine into a single book recommendation service.
type Recommender struct {
	backend  *badger.Backend
	books    catalog.BookRepository
	vectors  *store.VectorStore
	provider ai.Provider
	engine   *query.Engine
	pre      *ingestion.Preprocessor
	logger   *slog.Logger
}

// RecommenderOption configures a Recommender.
type RecommenderOption func(*recommenderOptions)

type recommenderOptions struct {
	aiConfig  *ai.Config
	provider  ai.Provider
	dimension int
	storeOpts []store.Option
}

// WithAIConfig sets the AI service configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) RecommenderOption {
	return func(o *recommenderOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a pre-built AI provider, bypassing the default
// OpenAI-compatible one. The recommender takes ownership and closes it.
func WithProvider(provider ai.Provider) RecommenderOption {
	return func(o *recommenderOptions) {
		o.provider = provider
	}
}

// WithDimension sets the embedding dimension.
// Default is DefaultDimension.
func WithDimension(dim int) RecommenderOption {
	return func(o *recommenderOptions) {
		o.dimension = dim
	}
}

// WithStoreOptions passes options through to the underlying vector store.
func WithStoreOptions(opts ...store.Option) RecommenderOption {
	return func(o *recommenderOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// NewRecommender opens the catalog at filePath and wires up the vector
// store and query engine. An empty filePath opens an in-memory catalog.
func NewRecommender(filePath string, opts ...RecommenderOption) (*Recommender, error) {
	options := &recommenderOptions{
		aiConfig:  ai.DefaultConfig(),
		dimension: DefaultDimension,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	books := badger.NewBookRepository(backend)

	vectors, err := store.New(options.dimension, options.storeOpts...)
	if err != nil {
		books.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			books.Close()
			backend.Close()
			return nil, err
		}
	}

	engine, err := query.NewEngine(vectors, provider)
	if err != nil {
		provider.Close()
		books.Close()
		backend.Close()
		return nil, err
	}

	return &Recommender{
		backend:  backend,
		books:    books,
		vectors:  vectors,
		provider: provider,
		engine:   engine,
		pre:      ingestion.NewPreprocessor(),
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider, the catalog repository, and the backend.
func (r *Recommender) Close() error {
	if err := r.provider.Close(); err != nil {
		r.logger.Error("error closing AI provider", "err", err)
	}
	if err := r.books.Close(); err != nil {
		r.logger.Error("error closing book repository", "err", err)
		return err
	}
	if err := r.backend.Close(); err != nil {
		r.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// BookRepository returns the underlying catalog repository.
func (r *Recommender) BookRepository() catalog.BookRepository {
	return r.books
}

// VectorStore returns the underlying vector store.
func (r *Recommender) VectorStore() *store.VectorStore {
	return r.vectors
}

// NewIngestionPipeline creates an ingestion pipeline over the recommender's
// catalog, vector store, and AI provider.
func (r *Recommender) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(r.books, r.vectors, r.provider, opts...)
}

// Recommend returns the top-K recommendations for a free-text query.
func (r *Recommender) Recommend(ctx context.Context, q string, filter *query.Filter, topK int) ([]*core.RecommendationResult, error) {
	return r.engine.Recommend(ctx, q, filter, topK)
}

// SimilarTo returns books similar to the given book, excluding the book
// itself.
func (r *Recommender) SimilarTo(ctx context.Context, bookID string, filter *query.Filter, topK int) ([]*core.RecommendationResult, error) {
	return r.engine.SimilarTo(ctx, bookID, filter, topK)
}

// ByAuthor returns recommendations restricted to an author's books.
func (r *Recommender) ByAuthor(ctx context.Context, author string, filter *query.Filter, topK int) ([]*core.RecommendationResult, error) {
	return r.engine.ByAuthor(ctx, author, filter, topK)
}

// BySeries returns recommendations for books in a series.
func (r *Recommender) BySeries(ctx context.Context, series string, filter *query.Filter, topK int) ([]*core.RecommendationResult, error) {
	return r.engine.BySeries(ctx, series, filter, topK)
}

// Upsert adds or fully replaces a book in the catalog and the vector store.
func (r *Recommender) Upsert(ctx context.Context, book *core.Book) error {
	pipeline, err := r.NewIngestionPipeline(ingestion.WithPoolSize(1))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	return pipeline.IngestBooks(ctx, book)
}

// Remove deletes a book from the catalog and the vector store. The catalog
// delete runs first so a failure, including catalog.ErrNotFound for an
// unknown book, leaves both sides untouched.
func (r *Recommender) Remove(ctx context.Context, bookID string) error {
	if err := r.books.DeleteBooks(ctx, bookID); err != nil {
		return err
	}
	r.vectors.Remove(bookID)
	return nil
}

// Save writes the vector store snapshot to the given path prefix.
func (r *Recommender) Save(path string) error {
	return r.vectors.Save(path)
}

// Load replaces the vector store contents from a snapshot. The catalog is
// untouched; documents carry enough metadata to serve queries on their own.
func (r *Recommender) Load(path string) error {
	return r.vectors.Load(path)
}

// Rebuild re-embeds every catalog book and rebuilds the vector store from
// scratch, reassigning index offsets and retraining the approximate path.
func (r *Recommender) Rebuild(ctx context.Context) error {
	books, err := r.books.ListBooks(ctx)
	if err != nil {
		return err
	}

	docs := make([]*core.Document, len(books))
	texts := make([]string, len(books))
	for i, book := range books {
		docs[i] = r.pre.Document(book)
		texts[i] = r.pre.SearchText(book)
	}

	if len(texts) > 0 {
		embeddings, err := r.provider.Embedder().EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: rebuild embedding failed: %w", core.ErrIndex, err)
		}
		if len(embeddings) != len(docs) {
			return fmt.Errorf("%w: rebuild embedding mismatch: expected %d, received %d",
				core.ErrIndex, len(docs), len(embeddings))
		}
		for i := range docs {
			docs[i].Embedding = core.NormalizeVector(embeddings[i])
		}
	}

	if err := r.vectors.Rebuild(docs); err != nil {
		return err
	}
	r.vectors.Train()
	return nil
}

// PopularGenres returns up to topK genres ordered by how many catalog books
// carry them.
func (r *Recommender) PopularGenres(ctx context.Context, topK int) ([]string, error) {
	books, err := r.books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, book := range books {
		for _, genre := range book.Genres {
			counts[genre]++
		}
	}
	return topCounted(counts, topK), nil
}

// PopularAuthors returns up to topK authors ordered by how many catalog
// books they wrote.
func (r *Recommender) PopularAuthors(ctx context.Context, topK int) ([]string, error) {
	books, err := r.books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, book := range books {
		if book.Author != "" {
			counts[book.Author]++
		}
	}
	return topCounted(counts, topK), nil
}

// TopRated returns up to limit books ordered by average rating, ties broken
// by ratings count.
func (r *Recommender) TopRated(ctx context.Context, limit int) ([]*core.Book, error) {
	books, err := r.books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(books, func(i, j int) bool {
		if books[i].AverageRating == books[j].AverageRating {
			return books[i].RatingsCount > books[j].RatingsCount
		}
		return books[i].AverageRating > books[j].AverageRating
	})

	if limit > 0 && limit < len(books) {
		books = books[:limit]
	}
	return books, nil
}

// topCounted orders keys by descending count, ties broken alphabetically
// for determinism.
func topCounted(counts map[string]int, topK int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] == counts[keys[j]] {
			return keys[i] < keys[j]
		}
		return counts[keys[i]] > counts[keys[j]]
	})

	if topK > 0 && topK < len(keys) {
		keys = keys[:topK]
	}
	return keys
}
