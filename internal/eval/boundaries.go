package eval

import (
	"strings"
	"unicode"
	"unicode/utf8"

	postag "github.com/jamesainslie/go-postag"
)

// Boundaries are sentence end offsets counted in non-space runes, so that
// engines which drop or alter whitespace can be compared with the gold text.

// GoldBoundaries returns the end offset of every gold sentence.
func GoldBoundaries(sentences []string) []int {
	var (
		out []int
		pos int
	)
	for _, s := range sentences {
		n := utf8.RuneCountInString(stripSpace(s))
		if n == 0 {
			continue
		}
		pos += n
		out = append(out, pos)
	}
	return out
}

// Boundaries returns the end offset of every sentence of doc, measured
// against text. Tokens that do not occur at the current position of text,
// such as punctuation inserted during boundary reconstruction, do not
// advance the offset.
func Boundaries(text string, doc postag.Document) []int {
	raw := stripSpace(text)

	var (
		out    []int
		cursor int // byte offset into raw
	)
	for _, sent := range doc {
		start := cursor
		for _, tok := range sent {
			t := stripSpace(tok.Text)
			if t != "" && strings.HasPrefix(raw[cursor:], t) {
				cursor += len(t)
			}
		}
		if cursor == start {
			continue
		}
		out = append(out, utf8.RuneCountInString(raw[:cursor]))
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
