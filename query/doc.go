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

// Package query turns a raw query into a ranked, filtered, explained list
// of book recommendations.
//
// The pipeline is linear per call: enhance the query (language collaborator
// with a deterministic keyword fallback), embed and L2-normalize it (zero
// vector fallback), retrieve an over-fetched candidate set from the vector
// store, reconstruct each candidate into a Book (malformed candidates are
// skipped, not fatal), apply the conjunctive Filter, attach an explanation
// (collaborator with a template fallback), rank by composite score, and
// truncate.
//
// Enhancement, vectorization, and explanation degrade gracefully on
// provider failure and never surface errors; every other stage propagates
// a typed error and never returns a partial result list.
package query
