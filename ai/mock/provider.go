// Copyright 2025 Poiesic Systems
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

import "github.com/poiesic/carprompt/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock parser, embedder and expander instances.
type MockProvider struct {
	embedder *MockEmbedder
	parser   *MockFilterParser
	expander *MockQueryExpander
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockParser()/GetMockExpander() to access concrete
// types for test assertions.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithServices(NewMockEmbedder(), NewMockFilterParser(), NewMockQueryExpander())
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(embedder *MockEmbedder, parser *MockFilterParser, expander *MockQueryExpander) ai.AIProvider {
	return &MockProvider{
		embedder: embedder,
		parser:   parser,
		expander: expander,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// FilterParser returns the mock parser.
func (p *MockProvider) FilterParser() ai.FilterParser {
	return p.parser
}

// QueryExpander returns the mock expander.
func (p *MockProvider) QueryExpander() ai.QueryExpander {
	return p.expander
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockParser returns the underlying mock parser for test assertions.
func (p *MockProvider) GetMockParser() *MockFilterParser {
	return p.parser
}

// GetMockExpander returns the underlying mock expander for test assertions.
func (p *MockProvider) GetMockExpander() *MockQueryExpander {
	return p.expander
}
