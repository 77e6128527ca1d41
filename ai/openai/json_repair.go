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

package openai

import "strings"

// cleanResponse strips markdown code fences and repairs the JSON damage
// small models commonly produce.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return repairJSON(strings.TrimSpace(s))
}

// repairJSON fixes two defects outside string literals: a key missing its
// opening quote (`, type":` becomes `, "type":`) and a trailing comma before
// a closing bracket or brace.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)
	inString := false

	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out = append(out, ch)
			if ch == '\\' && i+1 < len(in) {
				i++
				out = append(out, in[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)
		case ',':
			// Drop a comma that only precedes whitespace and a closer
			j := skipSpace(in, i+1)
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
			out = append(out, ch)
			out = appendKey(out, in, &i)
		case '{':
			out = append(out, ch)
			out = appendKey(out, in, &i)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

// appendKey copies whitespace after position *i and, if what follows is a
// bare word closed by `":`, emits it with its missing opening quote.
// *i is left on the last rune consumed.
func appendKey(out, in []rune, i *int) []rune {
	j := skipSpace(in, *i+1)
	out = append(out, in[*i+1:j]...)
	*i = j - 1

	if j >= len(in) || !isLetter(in[j]) {
		return out
	}
	k := j
	for k < len(in) && (isLetter(in[k]) || in[k] == '_') {
		k++
	}
	if k+1 < len(in) && in[k] == '"' && in[k+1] == ':' {
		out = append(out, '"')
		out = append(out, in[j:k]...)
		// The closing quote is processed by the caller and would open a
		// string, so emit it here and resume after it.
		out = append(out, '"')
		*i = k
	}
	return out
}

func skipSpace(in []rune, i int) int {
	for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t' || in[i] == '\r') {
		i++
	}
	return i
}
