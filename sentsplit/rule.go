package sentsplit

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Common abbreviations that shouldn't end sentences
var abbreviations = regexp.MustCompile(`(?i)\b(Mr|Mrs|Ms|Dr|Prof|Sr|Jr|vs|etc|i\.e|e\.g|U\.S|U\.K)\.$`)

// Rule splits at sentence-ending punctuation followed by whitespace or the
// end of the text. It needs no model and handles CJK full-width terminals.
type Rule struct{}

// Split returns the trimmed, non-empty sentences of text.
func (Rule) Split(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size

		if !isTerminal(r) {
			i = next
			continue
		}

		// Check if this is end of text or followed by whitespace
		if next < len(text) {
			nr, _ := utf8.DecodeRuneInString(text[next:])
			if !unicode.IsSpace(nr) && !isFullWidth(r) {
				i = next
				continue
			}
		}

		// Check for abbreviation
		if r == '.' && abbreviations.MatchString(text[start:next]) {
			i = next
			continue
		}

		if s := strings.TrimSpace(text[start:next]); s != "" {
			sentences = append(sentences, s)
		}

		// Skip whitespace to find next sentence start
		for next < len(text) {
			nr, nsize := utf8.DecodeRuneInString(text[next:])
			if !unicode.IsSpace(nr) {
				break
			}
			next += nsize
		}
		start = next
		i = next
	}

	// Handle remaining text without terminal punctuation
	if start < len(text) {
		if remaining := strings.TrimSpace(text[start:]); remaining != "" {
			sentences = append(sentences, remaining)
		}
	}

	return sentences
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '?', '!', '。', '？', '！':
		return true
	}
	return false
}

func isFullWidth(r rune) bool {
	return r == '。' || r == '？' || r == '！'
}
