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

package query

import (
	"slices"

	"github.com/shelfwise/shelfwise/core"
)

// Filter is a conjunctive predicate over candidate books. Absent clauses
// (nil pointers, empty slices, false flags) impose no constraint; a
// candidate failing any present clause is excluded.
type Filter struct {
	// Genres admits a book carrying at least one of these genres.
	Genres []string

	// MinRating and MaxRating bound the average rating, inclusive.
	MinRating *float64
	MaxRating *float64

	// MinRatingsCount requires at least this many ratings.
	MinRatingsCount *int

	// YearStart and YearEnd bound the publication year, inclusive.
	YearStart *int
	YearEnd   *int

	// Language requires an exact language match.
	Language *string

	// EbookOnly admits only books available as ebooks.
	EbookOnly bool

	// Authors admits a book written by any of these authors.
	Authors []string
}

// Matches reports whether the book passes every present clause.
func (f *Filter) Matches(book *core.Book) bool {
	if f == nil {
		return true
	}

	if len(f.Genres) > 0 {
		matched := false
		for _, genre := range book.Genres {
			if slices.Contains(f.Genres, genre) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MinRating != nil && book.AverageRating < *f.MinRating {
		return false
	}
	if f.MaxRating != nil && book.AverageRating > *f.MaxRating {
		return false
	}
	if f.MinRatingsCount != nil && book.RatingsCount < *f.MinRatingsCount {
		return false
	}

	if f.YearStart != nil || f.YearEnd != nil {
		year := book.PublicationYear()
		if f.YearStart != nil && year < *f.YearStart {
			return false
		}
		if f.YearEnd != nil && year > *f.YearEnd {
			return false
		}
	}

	if f.Language != nil && book.Language != *f.Language {
		return false
	}
	if f.EbookOnly && !book.IsEbook {
		return false
	}
	if len(f.Authors) > 0 && !slices.Contains(f.Authors, book.Author) {
		return false
	}

	return true
}

// withAuthor returns a copy of the filter that also admits the given
// author. A nil receiver yields a filter constraining only the author.
func (f *Filter) withAuthor(author string) *Filter {
	var out Filter
	if f != nil {
		out = *f
		out.Authors = slices.Clone(f.Authors)
	}
	out.Authors = append(out.Authors, author)
	return &out
}
