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


// Package ai provides abstractions for the AI services shelfwise consumes.
//
// The package defines three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Assistant: enhances search queries and explains matches
//   - Provider: aggregates both for convenient initialization
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation backed by OpenAI-compatible APIs
//     through langchaingo
//   - ai/mock: deterministic test doubles with behavior injection and call
//     counters
//
// The provider is an explicitly constructed, injected collaborator: nothing
// in this module reaches for a global client, so tests can substitute a
// deterministic stub everywhere a provider is consumed.
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return the
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and assert call counts.
package ai
