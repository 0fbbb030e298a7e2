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


// Package core defines the domain model for shelfwise.
//
// It contains the Document type stored by the vector store, the Book catalog
// item reconstructed from document metadata, the tagged-union Value type used
// for loosely typed metadata, and the error taxonomy shared by every layer.
//
// # Error Taxonomy
//
// Three category sentinels classify every surfaced failure:
//
//   - ErrDataLoad: malformed or missing external catalog input
//   - ErrIndex: dimension mismatches, unknown ids, corrupt persisted state
//   - ErrQuery: unrecoverable query pipeline failures
//
// Specific errors wrap a category, so callers use errors.Is against either
// the specific sentinel or the category:
//
//	if errors.Is(err, core.ErrIndex) { ... }
//
// # Metadata
//
// Document metadata is an ordered mapping from string keys to Value, a
// tagged union over string, number, bool, string list, and null. Accessors
// return a typed value or an explicit error; a Book reconstruction fails if
// a required key is missing or mistyped, and that failure is reported, not
// papered over.
package core
