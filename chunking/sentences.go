package chunking

import (
	"strings"
	"unicode"
)

// SplitSentences splits text into sentences on terminal punctuation.
// Whitespace runs inside a sentence are collapsed so later whitespace-joined
// chunk text reconstructs cleanly. The split is deterministic: the same input
// always yields the same sentence sequence.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		// Check for sentence ending
		if r == '.' || r == '!' || r == '?' {
			// Look ahead for space or end
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				// Not an abbreviation (simple heuristic)
				if i > 1 && unicode.IsUpper(runes[i-1]) {
					continue // Likely abbreviation like "Dr."
				}
				if s := normalizeSentence(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := normalizeSentence(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// normalizeSentence trims a raw sentence and collapses interior whitespace.
func normalizeSentence(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
