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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shelfwise/shelfwise/ai"
	"github.com/shelfwise/shelfwise/catalog"
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/store"
)

// Config holds configuration for a reembedding run.
type Config struct {
	// BatchSize is the number of books to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of books)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder re-embeds every catalog book and rebuilds the vector store.
type Reembedder struct {
	repo      catalog.BookRepository
	vectors   *store.VectorStore
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *BookIterator
}

// NewReembedder creates a reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo catalog.BookRepository, vectors *store.VectorStore, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		vectors:   vectors,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewBookIterator(repo, config.BatchSize),
	}
}

// Run executes the reembedding run. The vector store is emptied first, then
// every catalog book is embedded with the configured embedder and indexed.
// The approximate search path is retrained once all books have landed.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.CountBooks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No books found in catalog (0 books)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d books (batch size: %d)\n",
		total, r.config.BatchSize)

	if err := r.vectors.Rebuild(nil); err != nil {
		return fmt.Errorf("failed to reset vector store: %w", err)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(books []*core.Book) error {
		if err := r.processor.Process(ctx, books); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(books)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	r.vectors.Train()
	tracker.Finish()
	return nil
}
