package postag

import (
	"fmt"
	"strings"
)

// Encoder renders a Document in the flat string form and parses it back.
//
// Tokens are written as text+Separator+tag and joined by single spaces;
// sentences are joined by Sentinel. Decoding splits tokens on the ASCII space
// only and splits a token on the last occurrence of Separator, so token text
// may contain the separator, tabs or other Unicode spaces such as U+00A0, but
// neither tags nor token text may contain an ASCII space or the sentinel.
type Encoder struct {
	Separator string
	Sentinel  string
}

// DefaultEncoder uses "|" between text and tag and "[ENDSENT]" between sentences.
var DefaultEncoder = Encoder{Separator: DefaultSeparator, Sentinel: DefaultSentinel}

// Encode returns the flat form of doc.
func (e Encoder) Encode(doc Document) string {
	var b strings.Builder
	for i, sent := range doc {
		if i > 0 {
			b.WriteString(e.Sentinel)
		}
		for j, tok := range sent {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(tok.Text)
			b.WriteString(e.Separator)
			b.WriteString(tok.Tag)
		}
	}
	return b.String()
}

// Decode parses a flat string produced by Encode.
func (e Encoder) Decode(s string) (Document, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, e.Sentinel)
	doc := make(Document, 0, len(parts))
	for i, part := range parts {
		fields := strings.Split(part, " ")
		sent := make(Sentence, 0, len(fields))
		for _, field := range fields {
			if field == "" {
				continue
			}
			idx := strings.LastIndex(field, e.Separator)
			if idx < 0 {
				return nil, fmt.Errorf("%w: sentence %d: token %q has no separator %q", ErrMalformedFlat, i, field, e.Separator)
			}
			sent = append(sent, Token{
				Text: field[:idx],
				Tag:  field[idx+len(e.Separator):],
			})
		}
		if len(sent) == 0 {
			continue
		}
		doc = append(doc, sent)
	}

	return doc, nil
}
