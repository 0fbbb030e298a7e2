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


// Package index implements nearest-neighbor search over document embeddings
// under inner-product similarity.
//
// Two search paths share one dense offset space:
//
//   - Exact: a flat structure scanned in full. Always available.
//   - Approximate: an inverted-file structure partitioned by spherical
//     k-means. Requires a training pass over the corpus; mutations retire
//     the trained state until the next Train.
//
// Similarity is the raw inner product of the vectors as stored. Callers
// wanting cosine similarity normalize before indexing and querying; the
// query engine does exactly that.
//
// Removal tombstones offsets instead of compacting, and every search path
// filters tombstones, so a removed document can never surface in results.
// Build reassigns offsets densely.
//
// The package is not internally synchronized. The vector store wraps it in
// a read/write lock.
package index
