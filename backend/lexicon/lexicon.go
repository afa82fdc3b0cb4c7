// Package lexicon is a dictionary tagger driven by a YAML lexicon.
//
// It needs no external engine, which makes it useful for small tag sets,
// fixtures and pipelines without a trained model. Like most word-level
// engines it does not segment sentences; wrap it with postag.NewFlat using
// the lexicon's terminal tag.
//
// A lexicon file looks like:
//
//	terminal_tag: SENT
//	default_tag: NN
//	punctuation_tag: PUNCT
//	lowercase: true
//	entries:
//	  the: DT
//	  ".": SENT
//	suffixes:
//	  - {suffix: ing, tag: VBG}
//	  - {suffix: ly, tag: RB}
package lexicon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	postag "github.com/jamesainslie/go-postag"
	"github.com/jamesainslie/go-postag/tokenizer"
)

// Name identifies the backend.
const Name = "lexicon"

// Lexicon is the on-disk tagging dictionary.
type Lexicon struct {
	// TerminalTag is the tag of sentence-final tokens.
	TerminalTag string `yaml:"terminal_tag"`
	// DefaultTag is used for words no rule covers.
	DefaultTag string `yaml:"default_tag"`
	// PunctuationTag is used for punctuation and symbols with no entry.
	PunctuationTag string `yaml:"punctuation_tag"`
	// NumberTag is used for words made of digits and no entry.
	NumberTag string `yaml:"number_tag"`
	// Lowercase makes entry lookup case-insensitive.
	Lowercase bool `yaml:"lowercase"`
	// Entries maps words to tags.
	Entries map[string]string `yaml:"entries"`
	// Suffixes are tried longest first for words with no entry.
	Suffixes []SuffixRule `yaml:"suffixes"`
}

// SuffixRule tags words ending in Suffix.
type SuffixRule struct {
	Suffix string `yaml:"suffix"`
	Tag    string `yaml:"tag"`
}

// Load reads and validates a lexicon file.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", postag.ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML lexicon.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// Validate checks that the lexicon can tag every word.
func (l *Lexicon) Validate() error {
	if l.TerminalTag == "" {
		return fmt.Errorf("lexicon: %w", postag.ErrNoTerminalTag)
	}
	if l.DefaultTag == "" {
		return fmt.Errorf("lexicon: default_tag is required")
	}
	for i, r := range l.Suffixes {
		if r.Suffix == "" || r.Tag == "" {
			return fmt.Errorf("lexicon: suffix rule %d needs both suffix and tag", i)
		}
	}
	for word, tag := range l.Entries {
		if tag == "" || strings.ContainsAny(tag, " \t\n") {
			return fmt.Errorf("lexicon: entry %q has invalid tag %q", word, tag)
		}
	}
	return nil
}

// Tagger is a postag.FlatBackend over a Lexicon.
type Tagger struct {
	lex      Lexicon
	entries  map[string]string
	suffixes []SuffixRule
}

var _ postag.FlatBackend = (*Tagger)(nil)

// New builds a Tagger. lex is copied.
func New(lex *Lexicon) (*Tagger, error) {
	if lex == nil {
		return nil, postag.ErrNoBackend
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}

	t := &Tagger{
		lex:      *lex,
		entries:  make(map[string]string, len(lex.Entries)),
		suffixes: append([]SuffixRule(nil), lex.Suffixes...),
	}
	for w, tag := range lex.Entries {
		if lex.Lowercase {
			w = strings.ToLower(w)
		}
		t.entries[w] = tag
	}
	sort.SliceStable(t.suffixes, func(i, j int) bool {
		return len(t.suffixes[i].Suffix) > len(t.suffixes[j].Suffix)
	})

	return t, nil
}

// Name implements postag.FlatBackend.
func (t *Tagger) Name() string { return Name }

// TerminalTag returns the lexicon's sentence-final tag.
func (t *Tagger) TerminalTag() string { return t.lex.TerminalTag }

// TagFlat implements postag.FlatBackend. Whitespace separates words and
// every punctuation or symbol character is a word of its own.
func (t *Tagger) TagFlat(ctx context.Context, text string) ([]postag.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := tokenizer.PreTokenize(text)
	tokens := make([]postag.Token, len(words))
	for i, w := range words {
		tokens[i] = postag.Token{Text: w.Text, Tag: t.lookup(w.Text)}
	}
	return tokens, nil
}

func (t *Tagger) lookup(word string) string {
	key := word
	if t.lex.Lowercase {
		key = strings.ToLower(word)
	}
	if tag, ok := t.entries[key]; ok {
		return tag
	}

	switch {
	case t.lex.PunctuationTag != "" && allRunes(word, isPunct):
		return t.lex.PunctuationTag
	case t.lex.NumberTag != "" && allRunes(word, unicode.IsDigit):
		return t.lex.NumberTag
	}

	for _, r := range t.suffixes {
		if len(key) > len(r.Suffix) && strings.HasSuffix(key, r.Suffix) {
			return r.Tag
		}
	}
	return t.lex.DefaultTag
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
