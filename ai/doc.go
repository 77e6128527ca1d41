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

// Package ai provides abstractions for the AI services carprompt depends on.
//
// This package defines interfaces for prompt parsing, text embeddings and
// query expansion. The search engine depends on these abstractions rather
// than on a concrete client, so it can run against a hosted model, a local
// OpenAI-compatible server, or no model at all.
//
// # Interfaces
//
//   - FilterParser: Turns a free-text prompt into a core.FilterSet
//   - Embedder: Generates vector embeddings from text
//   - QueryExpander: Suggests related search terms
//   - AIProvider: Aggregates the three for initialization and shutdown
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/offline: Used when no credentials are configured. The parser is a
//     keyword extractor and the embedder returns ErrUnavailable, so callers
//     skip vector scoring explicitly instead of ranking against fake vectors
//   - ai/cache: Redis-backed Embedder decorator
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Parser Boundary
//
// Model output is untrusted. DecodeFilterSet validates it against
// FilterSetSchema, drops every top-level field that does not conform, and
// decodes the rest into the fixed-shape FilterSet. Only a payload that is
// not a JSON object fails outright, with ErrParseFailure.
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, offline.NewProvider, etc.) return
// interface types. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockFilterParser) return concrete types so tests can inject
// behaviour and inspect call counts.
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.WithEmbedTextFunc(...)
//	count := mockEmbed.CallCount()
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	filters, err := provider.FilterParser().ParseFilters(ctx, "cheap reliable Japanese hatchback")
//	vector, err := provider.Embedder().EmbedText(ctx, "reliable economical")
package ai
