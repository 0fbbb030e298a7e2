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
	"math"
	"strings"
	"unicode"
)

// genreKeywords maps a genre mention in a query to topical expansion terms.
// Checked in order so the expansion is deterministic.
var genreKeywords = []struct {
	genre    string
	keywords string
}{
	{"fantasy", "magic dragons adventure quest"},
	{"science fiction", "space technology future sci-fi"},
	{"mystery", "detective crime investigation thriller"},
	{"romance", "love relationship emotional"},
	{"horror", "scary supernatural terror dark"},
}

// enhanceWithRules augments a query with topical keywords via substring
// checks against a fixed table. Purely deterministic, used when the
// language collaborator is unavailable.
func enhanceWithRules(query string) string {
	var b strings.Builder
	b.WriteString(query)

	if strings.Contains(query, "like") {
		b.WriteString(" similar books recommendations")
	}
	if strings.Contains(query, "author") {
		b.WriteString(" books written by")
	}
	if strings.Contains(query, "series") {
		b.WriteString(" book series sequel prequel")
	}

	for _, gk := range genreKeywords {
		if strings.Contains(query, gk.genre) {
			b.WriteString(" ")
			b.WriteString(gk.keywords)
		}
	}
	return b.String()
}

// preprocessQuery lowercases, strips punctuation, and collapses whitespace
// before the text reaches the embedder.
func preprocessQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range strings.ToLower(query) {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// normalize scales the vector to unit Euclidean length in place. A
// zero-norm vector is left untouched to avoid division by zero.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	inv := float32(1 / norm)
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
