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

// Package store composes the vector index, the document mapping, and the
// result cache into a single unit of ownership and persistence.
//
// # Ownership
//
// The VectorStore is the only component that touches the index, the
// documents, and the cache together. Consumers (the query engine, the
// facade) hold no reference to index internals, only to the store's public
// operations, which removes aliasing hazards between the three structures.
//
// # Concurrency
//
// A coarse read/write lock serializes store access: searches and lookups
// run as readers, mutations and persistence as writers. The result cache
// carries its own lock and is cleared wholesale on every mutation, so cache
// hits never require coordination with index internals.
//
// # Persistence
//
// One logical snapshot is three artifacts under a shared base path: the
// exact structure (.flat), the partitioned structure (.ivf), and the
// document mapping (.mapping). The mapping opens with a fixed-width record
// count followed by length-prefixed serialized documents; loading is
// all-or-nothing and rejects any truncated or mismatched artifact without
// touching the prior contents.
package store
