package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfwise/shelfwise/ai"
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/store"
)

// DefaultCollaboratorTimeout bounds each external embedding or language
// call so a slow provider cannot stall a search indefinitely. On timeout
// the same fallback applies as on a hard provider failure.
const DefaultCollaboratorTimeout = 15 * time.Second

// Engine turns a raw query into a ranked, filtered, explained result list.
// Engine calls are stateless and independently re-entrant; the only shared
// mutable state they touch is the vector store, through its own lock.
type Engine struct {
	store     *store.VectorStore
	embedder  ai.Embedder
	assistant ai.Assistant
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithCollaboratorTimeout bounds each external provider call. A
// non-positive duration disables the bound.
func WithCollaboratorTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		e.timeout = d
		return nil
	}
}

// NewEngine creates a query engine over the given store and AI provider.
func NewEngine(vs *store.VectorStore, provider ai.Provider, opts ...Option) (*Engine, error) {
	if vs == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	e := &Engine{
		store:     vs,
		embedder:  provider.Embedder(),
		assistant: provider.Assistant(),
		timeout:   DefaultCollaboratorTimeout,
		logger:    slog.Default().With("component", "queryengine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Recommend returns up to topK books matching the query and filter, ranked
// by composite score.
func (e *Engine) Recommend(ctx context.Context, query string, filter *Filter, topK int) ([]*core.RecommendationResult, error) {
	return e.RecommendWithMonitor(ctx, query, filter, topK, nil)
}

// RecommendWithMonitor runs the recommendation pipeline with monitoring.
// The monitor receives callbacks at each pipeline stage.
func (e *Engine) RecommendWithMonitor(ctx context.Context, query string, filter *Filter, topK int, monitor QueryMonitor) ([]*core.RecommendationResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	enhanced := e.enhance(ctx, query)
	monitor.AfterEnhancement(enhanced)

	vector := e.vectorize(ctx, enhanced)
	monitor.AfterVectorization(vector)

	return e.run(ctx, vector, query, filter, topK, "", monitor)
}

// SimilarTo returns up to topK books similar to an existing book,
// excluding the book itself.
func (e *Engine) SimilarTo(ctx context.Context, bookID string, filter *Filter, topK int) ([]*core.RecommendationResult, error) {
	if topK <= 0 {
		return []*core.RecommendationResult{}, nil
	}

	vector, ok := e.store.Vector(bookID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown book %q", core.ErrQuery, bookID)
	}
	return e.run(ctx, vector, "", filter, topK, bookID, &noopMonitor{})
}

// ByAuthor returns up to topK books by the given author, ranked against a
// templated query.
func (e *Engine) ByAuthor(ctx context.Context, author string, filter *Filter, topK int) ([]*core.RecommendationResult, error) {
	return e.Recommend(ctx, "books by author "+author, filter.withAuthor(author), topK)
}

// BySeries returns up to topK books relevant to the given series name.
func (e *Engine) BySeries(ctx context.Context, series string, filter *Filter, topK int) ([]*core.RecommendationResult, error) {
	return e.Recommend(ctx, "books in series "+series, filter, topK)
}

// run executes retrieval, reconstruction, filtering, explanation, and
// ranking. excludeID drops a specific book from the candidates (used by
// SimilarTo). Either a complete ranked list is returned or an error; never
// a partial one.
func (e *Engine) run(ctx context.Context, vector []float32, query string, filter *Filter, topK int, excludeID string, monitor QueryMonitor) ([]*core.RecommendationResult, error) {
	if topK <= 0 {
		return []*core.RecommendationResult{}, nil
	}

	// Over-fetch to leave room for post-filter attrition.
	fetch := topK * 2
	if excludeID != "" {
		fetch++
	}
	hits, err := e.store.Search(vector, fetch, true)
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %w", core.ErrQuery, err)
	}
	monitor.AfterRetrieval(hits)

	results := make([]*core.RecommendationResult, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == excludeID {
			continue
		}
		doc, err := e.store.Get(hit.ID)
		if err != nil {
			e.logger.Warn("candidate document vanished, skipping", "id", hit.ID, "err", err)
			monitor.CandidateSkipped(hit.ID, err)
			continue
		}
		book, err := core.BookFromDocument(doc)
		if err != nil {
			// A malformed candidate fails itself, not the whole query.
			e.logger.Warn("candidate missing required metadata, skipping", "id", hit.ID, "err", err)
			monitor.CandidateSkipped(hit.ID, err)
			continue
		}
		if !filter.Matches(book) {
			monitor.CandidateFiltered(hit.ID)
			continue
		}
		results = append(results, &core.RecommendationResult{
			Book:        book,
			Similarity:  hit.Score,
			Explanation: e.explain(ctx, book, query),
		})
	}

	rankResults(results)
	if len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)
	return results, nil
}

// enhance augments the query via the language collaborator, falling back
// to the deterministic keyword table on failure. Never fails.
func (e *Engine) enhance(ctx context.Context, query string) string {
	tctx, cancel := e.collaboratorContext(ctx)
	defer cancel()

	enhanced, err := e.assistant.EnhanceQuery(tctx, query)
	if err != nil || strings.TrimSpace(enhanced) == "" {
		e.logger.Warn("query enhancement unavailable, using keyword rules", "err", err)
		return enhanceWithRules(query)
	}
	return enhanced
}

// vectorize embeds the query text and L2-normalizes the result. Embedding
// failure degrades to a zero vector of the store dimension so downstream
// ranking still executes.
func (e *Engine) vectorize(ctx context.Context, text string) []float32 {
	tctx, cancel := e.collaboratorContext(ctx)
	defer cancel()

	vector, err := e.embedder.EmbedText(tctx, preprocessQuery(text))
	if err != nil {
		e.logger.Warn("query embedding failed, degrading to zero vector", "err", err)
		return make([]float32, e.store.Dimension())
	}
	if len(vector) != e.store.Dimension() {
		e.logger.Warn("embedder returned wrong dimension, degrading to zero vector",
			"got", len(vector), "want", e.store.Dimension())
		return make([]float32, e.store.Dimension())
	}
	return normalize(vector)
}

// explain asks the explanation collaborator for a justification, falling
// back to the deterministic template on failure. Never fails.
func (e *Engine) explain(ctx context.Context, book *core.Book, query string) string {
	tctx, cancel := e.collaboratorContext(ctx)
	defer cancel()

	explanation, err := e.assistant.ExplainMatch(tctx, bookSummary(book), query)
	if err != nil || strings.TrimSpace(explanation) == "" {
		return templateExplanation(book, query)
	}
	return strings.TrimSpace(explanation)
}

func (e *Engine) collaboratorContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}
