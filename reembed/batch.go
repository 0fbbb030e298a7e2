package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfwise/shelfwise/ai"
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/ingestion"
	"github.com/shelfwise/shelfwise/store"
)

// BatchProcessor embeds batches of books and adds the resulting documents
// to the vector store.
type BatchProcessor struct {
	vectors        *store.VectorStore
	embedder       ai.Embedder
	pre            *ingestion.Preprocessor
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a batch processor. Embedding calls are retried
// up to maxRetries times with exponential backoff starting at
// retryBaseDelay.
func NewBatchProcessor(vectors *store.VectorStore, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		pre:            ingestion.NewPreprocessor(),
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds one batch of books and writes the documents to the vector
// store. Vectors are normalized so inner-product search behaves as cosine
// similarity.
func (bp *BatchProcessor) Process(ctx context.Context, books []*core.Book) error {
	if len(books) == 0 {
		return nil
	}

	texts := make([]string, len(books))
	for i, book := range books {
		texts[i] = bp.pre.SearchText(book)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(books) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(books), len(embeddings))
	}

	docs := make([]*core.Document, len(books))
	for i, book := range books {
		doc := bp.pre.Document(book)
		doc.Embedding = core.NormalizeVector(embeddings[i])
		docs[i] = doc
	}

	return bp.vectors.Add(docs...)
}
