package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Encode pre-tokenizes text and splits every word into pieces.
func (t *Tokenizer) Encode(text string) []TokenInfo {
	return t.EncodeWords(PreTokenize(text))
}

// EncodeIDs returns the piece ids for text.
func (t *Tokenizer) EncodeIDs(text string) []int32 {
	tokens := t.Encode(text)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}
	return ids
}

// EncodeWords splits each word by greedy longest-match-first. A word that
// cannot be fully covered by the vocabulary becomes a single [UNK] piece.
func (t *Tokenizer) EncodeWords(words []Word) []TokenInfo {
	var tokens []TokenInfo
	for wi, w := range words {
		tokens = append(tokens, t.encodeWord(wi, w)...)
	}
	return tokens
}

func (t *Tokenizer) encodeWord(index int, w Word) []TokenInfo {
	unk := []TokenInfo{{ID: t.unkID, Text: w.Text, Start: w.Start, End: w.End, Word: index, First: true}}

	text := w.Text
	if t.lowercase {
		text = strings.ToLower(text)
	}
	if utf8.RuneCountInString(text) > maxWordRunes {
		return unk
	}
	// Lowercasing may change byte lengths; offsets then cover the whole word.
	exact := len(text) == len(w.Text)

	// byte offsets of rune boundaries, including len(text)
	bounds := make([]int, 0, len(text)+1)
	for i := range text {
		bounds = append(bounds, i)
	}
	bounds = append(bounds, len(text))

	var pieces []TokenInfo
	for s := 0; s < len(bounds)-1; {
		found := -1
		var id int32
		for e := len(bounds) - 1; e > s; e-- {
			sub := text[bounds[s]:bounds[e]]
			if s > 0 {
				sub = continuationPrefix + sub
			}
			if v, ok := t.vocab[sub]; ok {
				found, id = e, v
				break
			}
		}
		if found < 0 {
			return unk
		}

		piece := TokenInfo{ID: id, Word: index, First: s == 0, Start: w.Start, End: w.End}
		if exact {
			piece.Start = w.Start + bounds[s]
			piece.End = w.Start + bounds[found]
			piece.Text = w.Text[bounds[s]:bounds[found]]
		} else {
			piece.Text = text[bounds[s]:bounds[found]]
		}
		pieces = append(pieces, piece)
		s = found
	}

	return pieces
}
