package jsdoc

import "strings"

// SummaryLimit is the maximum summary length when no sentence end is found.
const SummaryLimit = 150

// Summarize returns the first sentence of text, up to and including the
// first '.', '!' or '?' that ends a word. Without a sentence end it falls
// back to the first SummaryLimit characters, with an ellipsis when truncated.
func Summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' {
				return text[:i+1]
			}
		}
	}

	runes := []rune(text)
	if len(runes) <= SummaryLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:SummaryLimit])) + "..."
}
