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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Text must not be empty
//
// NOT validated here:
//   - Embedding (can be nil until an embedder runs; the index enforces
//     dimension at build/add time)
//   - Metadata completeness (checked at Book reconstruction)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}
	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}
	return nil
}

// ValidateBook validates a Book according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - AverageRating must be in [0, 5]
//   - RatingsCount and ReviewCount must not be negative
func ValidateBook(book *Book) error {
	if book == nil {
		return fmt.Errorf("%w: book is nil", ErrInvalidBook)
	}
	if book.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBook, ErrEmptyID)
	}
	if book.AverageRating < 0 || book.AverageRating > 5 {
		return fmt.Errorf("%w: %w: %.2f", ErrInvalidBook, ErrRatingOutOfRange, book.AverageRating)
	}
	if book.RatingsCount < 0 || book.ReviewCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBook, ErrNegativeCount)
	}
	return nil
}
