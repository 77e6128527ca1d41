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

// Package search ranks car listings against a natural-language prompt.
//
// A Searcher parses the prompt into a core.FilterSet, expands its keywords
// with a fixed synonym table, fetches candidates matching the filter's
// predicates and ranks them on five factors:
//   - cosine similarity between the embedded keywords and each listing
//   - proximity of price, year and mileage to the requested bounds
//   - whole-word keyword matches in the listing text
//
// The scorers and the expander are pure functions and can be used on their
// own. Collaborators (parser, embedder, store) are passed in explicitly; an
// offline provider stands in when no model is configured.
package search
