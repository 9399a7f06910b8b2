// Package chunking splits normalized document text into sentences and
// overlapping, boundary-aware chunks for embedding and retrieval.
package chunking

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	missingBoundry = regexp.MustCompile(`([.!?])([A-Z])`)
)

// NormalizeText collapses whitespace runs to single spaces and inserts a
// missing space after sentence-ending punctuation that is immediately
// followed by an uppercase letter.
func NormalizeText(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = missingBoundry.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}

// SplitSentences splits text into trimmed, non-empty sentences in original
// order. Boundaries are '.', '!' or '?' followed by whitespace, except after
// abbreviation patterns like "U.S." or "Mr.". Non-empty input always yields
// at least one sentence.
func SplitSentences(text string) []string {
	runes := []rune(text)
	sentences := make([]string, 0, 8)
	start := 0

	for i := 1; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) {
			continue
		}
		p := runes[i-1]
		if p != '.' && p != '!' && p != '?' {
			continue
		}
		if isAbbreviationBoundary(runes, i) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start:i])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	if len(sentences) == 0 {
		if s := strings.TrimSpace(text); s != "" {
			return []string{s}
		}
		return nil
	}

	return sentences
}

// isAbbreviationBoundary reports whether the whitespace at position i sits
// right after an abbreviation and must not end a sentence. Two patterns are
// suppressed: a word-period-word run such as "U.S." and a capitalized
// two-letter abbreviation such as "Mr.".
func isAbbreviationBoundary(runes []rune, i int) bool {
	if i >= 4 && isWordRune(runes[i-4]) && runes[i-3] == '.' && isWordRune(runes[i-2]) {
		return true
	}
	if i >= 3 && unicode.IsUpper(runes[i-3]) && unicode.IsLower(runes[i-2]) && runes[i-1] == '.' {
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
