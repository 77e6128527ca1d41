package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywordMatcher counts how many keywords occur as whole words in a text.
// Patterns are compiled once per ranking and shared read-only by workers.
type keywordMatcher struct {
	patterns []*regexp.Regexp
}

func newKeywordMatcher(keywords []string) *keywordMatcher {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, keyword := range keywords {
		// A multi-word keyword matches as a whole phrase
		patterns = append(patterns, regexp.MustCompile(regexp.QuoteMeta(strings.ToLower(keyword))))
	}
	return &keywordMatcher{patterns: patterns}
}

// score returns the fraction of keywords found in text, 0 when there are
// none.
func (m *keywordMatcher) score(text string) float64 {
	if len(m.patterns) == 0 {
		return 0
	}
	text = strings.ToLower(text)
	found := 0
	for _, pattern := range m.patterns {
		if matchesWholeWord(pattern, text) {
			found++
		}
	}
	return float64(found) / float64(len(m.patterns))
}

// matchesWholeWord reports whether pattern occurs in text with a non-word
// rune, or the edge of text, on both sides. Word runes are Unicode letters,
// digits and '_', so accented keywords get the same boundaries as ASCII
// ones.
func matchesWholeWord(pattern *regexp.Regexp, text string) bool {
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		before, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
		after, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if (loc[0] == 0 || !isWordRune(before)) && (loc[1] == len(text) || !isWordRune(after)) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
