package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails; the query engine
	// recovers from that failure with a zero-vector fallback.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, in input order. Batch processing is more efficient than calling
	// EmbedText repeatedly during ingestion.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Assistant provides language-model help for query processing.
// Implementations must be thread-safe for concurrent use. Both operations
// are best-effort from the engine's perspective: any failure triggers a
// deterministic local fallback and is never surfaced to the caller.
type Assistant interface {
	// EnhanceQuery rewrites a raw book search query with relevant themes,
	// genres, and literary elements to improve retrieval.
	EnhanceQuery(ctx context.Context, query string) (string, error)

	// ExplainMatch produces a short natural-language justification for why
	// a book matches the query. bookSummary is a compact plain-text
	// rendering of the book's key fields.
	ExplainMatch(ctx context.Context, bookSummary, query string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Assistant instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Assistant returns the query enhancement and explanation service.
	Assistant() Assistant

	// Close releases resources held by the provider and its services.
	Close() error
}
