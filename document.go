package postag

import "strings"

// Token is a surface form paired with the tag an engine assigned to it.
type Token struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// Sentence is an ordered sequence of tokens.
type Sentence []Token

// Document is an ordered sequence of sentences.
type Document []Sentence

// String renders the sentence as space-separated tokens, without tags.
func (s Sentence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Tokens returns every token of the document in order.
func (d Document) Tokens() []Token {
	var n int
	for _, s := range d {
		n += len(s)
	}
	tokens := make([]Token, 0, n)
	for _, s := range d {
		tokens = append(tokens, s...)
	}
	return tokens
}

// Text concatenates the surface forms of all tokens with no separator.
func (d Document) Text() string {
	var b strings.Builder
	for _, s := range d {
		for _, t := range s {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// compact returns a copy of d without empty sentences.
func (d Document) compact() Document {
	out := make(Document, 0, len(d))
	for _, s := range d {
		if len(s) == 0 {
			continue
		}
		out = append(out, append(Sentence(nil), s...))
	}
	return out
}
