package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// Word is a pre-tokenized unit of text.
type Word struct {
	Text  string
	Start int // byte offset
	End   int // byte offset
}

// PreTokenize splits text on whitespace and separates every punctuation or
// symbol rune into its own word.
func PreTokenize(text string) []Word {
	var words []Word
	start := -1

	flush := func(end int) {
		if start >= 0 {
			words = append(words, Word{Text: text[start:end], Start: start, End: end})
			start = -1
		}
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush(i)
			words = append(words, Word{Text: text[i : i+size], Start: i, End: i + size})
		default:
			if start < 0 {
				start = i
			}
		}
		i += size
	}
	flush(len(text))

	return words
}
