// Package sentsplit provides punctuation-based sentence tokenizers.
package sentsplit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"
)

// ErrNoTrainingData indicates there is no bundled Punkt model for a language.
var ErrNoTrainingData = errors.New("sentsplit: no punkt training data for language")

// Punkt splits text with an unsupervised Punkt model, matching the behavior
// of NLTK's sent_tokenize.
type Punkt struct {
	language  string
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunkt loads the bundled Punkt parameters for language. Only "english"
// is bundled; use LoadPunkt for other languages.
func NewPunkt(language string) (*Punkt, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = "english"
	}

	b, err := sentencesdata.Asset("data/" + language + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTrainingData, language)
	}
	return newPunkt(language, b)
}

// LoadPunkt loads Punkt parameters from a JSON file in the format of the
// neurosnap/sentences data directory (e.g. german.json). The language is
// the file name without its extension.
func LoadPunkt(path string) (*Punkt, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading punkt data: %w", err)
	}
	language := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newPunkt(language, b)
}

func newPunkt(language string, data []byte) (*Punkt, error) {
	training, err := sentences.LoadTraining(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s punkt data: %w", language, err)
	}
	// Sections missing from a hand-written file decode as nil sets.
	for _, set := range []*sentences.SetString{
		&training.AbbrevTypes, &training.Collocations,
		&training.SentStarters, &training.OrthoContext,
	} {
		if *set == nil {
			*set = sentences.SetString{}
		}
	}

	return &Punkt{
		language:  language,
		tokenizer: sentences.NewSentenceTokenizer(training),
	}, nil
}

// Language returns the language of the loaded model.
func (p *Punkt) Language() string { return p.language }

// Split returns the trimmed, non-empty sentences of text. Periods that stand
// alone between spaces are returned as their own sentence, as NLTK does.
func (p *Punkt) Split(text string) []string {
	raw := p.tokenizer.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		out = append(out, splitStandalonePeriods(strings.TrimSpace(sent.Text))...)
	}
	return out
}

// splitStandalonePeriods separates periods that are surrounded by whitespace
// at the start or end of s, e.g. ". foo." or "foo. .".
func splitStandalonePeriods(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for strings.HasPrefix(s, ".") && (len(s) == 1 || isSpaceByte(s[1])) {
		out = append(out, ".")
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)
	}
	if s == "" {
		return out
	}

	trailing := 0
	for len(s) > 1 && s[len(s)-1] == '.' && isSpaceByte(s[len(s)-2]) {
		body := strings.TrimRightFunc(s[:len(s)-1], unicode.IsSpace)
		if body == "" {
			break
		}
		s = body
		trailing++
	}

	out = append(out, s)
	for i := 0; i < trailing; i++ {
		out = append(out, ".")
	}
	return out
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
