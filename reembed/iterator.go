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

	"github.com/shelfwise/shelfwise/catalog"
	"github.com/shelfwise/shelfwise/core"
)

// DefaultBatchSize is the default number of books fetched per batch.
const DefaultBatchSize = 100

// BookIterator iterates over every catalog book in batches.
type BookIterator struct {
	repo      catalog.BookRepository
	batchSize int
}

// NewBookIterator creates a book iterator.
// batchSize must be > 0; non-positive values fall back to DefaultBatchSize.
func NewBookIterator(repo catalog.BookRepository, batchSize int) *BookIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BookIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of catalog books. Iteration stops on the
// first error from fn. Context cancellation is checked between batches.
func (it *BookIterator) ForEach(ctx context.Context, fn func([]*core.Book) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	books, err := it.repo.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return nil
	}

	for i := 0; i < len(books); i += it.batchSize {
		end := min(i+it.batchSize, len(books))
		if err := fn(books[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
