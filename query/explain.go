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
	"fmt"
	"strconv"
	"strings"

	"github.com/shelfwise/shelfwise/core"
)

// templateExplanation builds a deterministic justification from the book's
// own attributes. Used whenever the explanation collaborator fails, so a
// request never loses its explanations to a provider outage.
func templateExplanation(book *core.Book, query string) string {
	var b strings.Builder
	b.WriteString("Recommended because ")

	rating := strconv.FormatFloat(book.AverageRating, 'g', -1, 64)
	if query != "" && len(book.Genres) > 0 {
		fmt.Fprintf(&b, "it matches your interest in %s", book.Genres[0])
		if book.Author != "" && strings.Contains(query, book.Author) {
			fmt.Fprintf(&b, " and is written by %s", book.Author)
		}
		fmt.Fprintf(&b, ". It has a rating of %s/5 from %d readers", rating, book.RatingsCount)
	} else {
		fmt.Fprintf(&b, "it has a rating of %s/5 from %d readers", rating, book.RatingsCount)
	}

	if book.Series != "" {
		fmt.Fprintf(&b, " and is part of the %s series", book.Series)
	}

	if len(book.Genres) > 0 {
		fmt.Fprintf(&b, ". This book combines elements of %s", joinGenres(book.Genres))
	}
	return b.String()
}

// joinGenres renders up to three genres as a natural-language list.
func joinGenres(genres []string) string {
	switch {
	case len(genres) == 1:
		return genres[0]
	case len(genres) == 2:
		return genres[0] + " and " + genres[1]
	default:
		return genres[0] + ", " + genres[1] + " and " + genres[2]
	}
}

// bookSummary is the compact description handed to the explanation
// collaborator.
func bookSummary(book *core.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q by %s", book.Title, book.Author)
	if len(book.Genres) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(book.Genres, ", "))
	}
	fmt.Fprintf(&b, ", rated %.2f/5 by %d readers", book.AverageRating, book.RatingsCount)
	if book.Series != "" {
		fmt.Fprintf(&b, ", part of the %s series", book.Series)
	}
	return b.String()
}
