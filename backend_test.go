package postag

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// dictBackend is a deterministic FlatBackend that segments text by greedy
// longest match against a fixed dictionary. Unknown runes become UNK tokens.
type dictBackend struct {
	entries map[string]string
	calls   []string
	err     error
}

func newDictBackend(entries map[string]string) *dictBackend {
	return &dictBackend{entries: entries}
}

func (b *dictBackend) Name() string { return "dict" }

func (b *dictBackend) TagFlat(_ context.Context, text string) ([]Token, error) {
	b.calls = append(b.calls, text)
	if b.err != nil {
		return nil, b.err
	}

	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	var tokens []Token
	for i := 0; i < len(text); {
		if text[i] == ' ' || text[i] == '\n' {
			i++
			continue
		}
		matched := false
		for _, k := range keys {
			if strings.HasPrefix(text[i:], k) {
				tokens = append(tokens, Token{Text: k, Tag: b.entries[k]})
				i += len(k)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			tokens = append(tokens, Token{Text: text[i : i+size], Tag: "UNK"})
			i += size
		}
	}
	return tokens, nil
}

// staticBackend returns a fixed stream for the whole text.
type staticBackend struct {
	tokens []Token
}

func (b staticBackend) Name() string { return "static" }

func (b staticBackend) TagFlat(context.Context, string) ([]Token, error) {
	return b.tokens, nil
}

// sentenceBackend is a segmenting Backend that splits on newlines and tags
// every whitespace-separated word with its length class.
type sentenceBackend struct {
	seen []string
	err  error
}

func (b *sentenceBackend) Name() string { return "lines" }

func (b *sentenceBackend) Tag(_ context.Context, text string) (Document, error) {
	b.seen = append(b.seen, text)
	if b.err != nil {
		return nil, b.err
	}

	var doc Document
	for _, line := range strings.Split(text, "\n") {
		var sent Sentence
		for _, w := range strings.Fields(line) {
			tag := "SHORT"
			if len(w) > 3 {
				tag = "LONG"
			}
			sent = append(sent, Token{Text: w, Tag: tag})
		}
		doc = append(doc, sent)
	}
	return doc, nil
}

var koreanDict = map[string]string{
	"저":   "NP",
	"는":   "JX",
	"학생":  "NNG",
	"입니다": "VCP+EF",
	"행복":  "NNG",
	"합니다": "XSA+EF",
	".":   "SF",
}
