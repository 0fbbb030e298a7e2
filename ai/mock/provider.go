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


package mock

import "github.com/shelfwise/shelfwise/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder and assistant instances.
type MockProvider struct {
	embedder  *MockEmbedder
	assistant *MockAssistant
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production
// constructors. Use GetMockEmbedder()/GetMockAssistant() to access concrete
// types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		assistant: NewMockAssistant(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, assistant *MockAssistant) ai.Provider {
	return &MockProvider{
		embedder:  embedder,
		assistant: assistant,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Assistant returns the mock assistant.
func (p *MockProvider) Assistant() ai.Assistant {
	return p.assistant
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockAssistant returns the underlying mock assistant for test assertions.
func (p *MockProvider) GetMockAssistant() *MockAssistant {
	return p.assistant
}
