package matchers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kova98/feedhook/enums"
)

// MatchesWholeWord returns true if the keyword appears as a complete word in the text.
// Word boundaries are defined by non-alphanumeric characters or start/end of string.
// Keywords that begin or end with punctuation, such as "(French Dub)", only need
// a boundary on the sides that are word characters.
func MatchesWholeWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(keyword)
	last, _ := utf8.DecodeLastRuneInString(keyword)

	idx := 0
	for {
		pos := strings.Index(text[idx:], keyword)
		if pos == -1 {
			return false
		}
		pos += idx

		before, _ := utf8.DecodeLastRuneInString(text[:pos])
		leftOk := pos == 0 || !isWordChar(first) || !isWordChar(before)

		endPos := pos + len(keyword)
		after, _ := utf8.DecodeRuneInString(text[endPos:])
		rightOk := endPos == len(text) || !isWordChar(last) || !isWordChar(after)

		if leftOk && rightOk {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[pos:])
		idx = pos + size
		if idx >= len(text) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func MatchesPartially(text, keyword string) bool {
	return strings.Contains(text, keyword)
}

// MatchingKeyword returns the first keyword found in text. Matching is case-sensitive.
func MatchingKeyword(text string, keywords []string, mode enums.MatchMode) (string, bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		var hit bool
		if mode == enums.MatchModeExact {
			hit = MatchesWholeWord(text, kw)
		} else {
			hit = MatchesPartially(text, kw)
		}
		if hit {
			return kw, true
		}
	}
	return "", false
}
