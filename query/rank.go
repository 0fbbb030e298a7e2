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
	"sort"

	"github.com/shelfwise/shelfwise/core"
)

// Composite ranking weights.
const (
	similarityWeight = 0.5
	popularityWeight = 0.3
	diversityWeight  = 0.2
)

// assumedGenresPerBook normalizes genre diversity against a typical genre
// count per catalog item.
const assumedGenresPerBook = 3.0

// diversityScore measures how varied a result batch is: unique genres
// normalized by an assumed three genres per book, averaged with unique
// authors per result. Computed once per batch and applied uniformly to
// every result's composite score.
func diversityScore(results []*core.RecommendationResult) float64 {
	if len(results) == 0 {
		return 0
	}

	genres := make(map[string]struct{})
	authors := make(map[string]struct{})
	for _, r := range results {
		authors[r.Book.Author] = struct{}{}
		for _, g := range r.Book.Genres {
			genres[g] = struct{}{}
		}
	}

	n := float64(len(results))
	genreDiversity := float64(len(genres)) / (n * assumedGenresPerBook)
	authorDiversity := float64(len(authors)) / n
	return (genreDiversity + authorDiversity) / 2
}

// rankResults sorts the batch by descending composite score. The sort is
// stable, so ties keep retrieval order.
func rankResults(results []*core.RecommendationResult) {
	diversity := diversityScore(results)
	sort.SliceStable(results, func(i, j int) bool {
		return compositeScore(results[i], diversity) > compositeScore(results[j], diversity)
	})
}

func compositeScore(r *core.RecommendationResult, diversity float64) float64 {
	return similarityWeight*float64(r.Similarity) +
		popularityWeight*r.Book.PopularityScore() +
		diversityWeight*diversity
}
