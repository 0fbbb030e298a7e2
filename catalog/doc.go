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

// Package catalog provides the durable book catalog abstraction.
//
// The catalog is the system of record for typed book rows: ingestion writes
// into it, the recommender reads it to (re)build the in-memory vector store,
// and catalog statistics (popular genres, top-rated titles) are computed
// over it. It is deliberately separate from the vector store, which holds
// only the searchable projection of the catalog.
//
// Public constructors return the BookRepository interface rather than a
// concrete type, so alternative backends can be swapped in and tests can
// substitute an in-memory instance.
package catalog
