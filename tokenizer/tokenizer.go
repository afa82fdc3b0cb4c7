// Package tokenizer implements WordPiece tokenization with byte offsets for
// token-classification models.
package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Special tokens of BERT-style vocabularies.
const (
	clsToken = "[CLS]"
	sepToken = "[SEP]"
	padToken = "[PAD]"
	unkToken = "[UNK]"

	continuationPrefix = "##"

	// maxWordRunes is the longest word split into pieces; longer words map to [UNK].
	maxWordRunes = 100
)

// Tokenizer maps words to WordPiece ids.
type Tokenizer struct {
	vocab     map[string]int32
	idToPiece []string
	lowercase bool

	clsID int32
	sepID int32
	padID int32
	unkID int32
}

// TokenInfo is one piece with its position in the original text.
type TokenInfo struct {
	ID    int32
	Text  string
	Start int // byte offset in original text
	End   int // byte offset in original text
	Word  int // index of the word this piece belongs to
	First bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLowercase lowercases words before lookup, for uncased vocabularies.
func WithLowercase() Option {
	return func(t *Tokenizer) {
		t.lowercase = true
	}
}

// New loads a vocabulary file with one piece per line; the line number is the id.
func New(vocabPath string, opts ...Option) (*Tokenizer, error) {
	pieces, err := LoadVocab(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("loading vocab: %w", err)
	}
	return FromPieces(pieces, opts...)
}

// FromPieces builds a Tokenizer from an in-memory vocabulary.
func FromPieces(pieces []string, opts ...Option) (*Tokenizer, error) {
	t := &Tokenizer{
		vocab:     make(map[string]int32, len(pieces)),
		idToPiece: pieces,
		clsID:     -1,
		sepID:     -1,
		padID:     -1,
		unkID:     -1,
	}
	for _, opt := range opts {
		opt(t)
	}

	for i, p := range pieces {
		if _, dup := t.vocab[p]; !dup {
			t.vocab[p] = int32(i)
		}
	}

	for tok, dst := range map[string]*int32{clsToken: &t.clsID, sepToken: &t.sepID, padToken: &t.padID, unkToken: &t.unkID} {
		if id, ok := t.vocab[tok]; ok {
			*dst = id
		}
	}
	if t.unkID < 0 {
		return nil, fmt.Errorf("vocabulary has no %s piece", unkToken)
	}

	return t, nil
}

// LoadVocab reads a vocabulary file.
func LoadVocab(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var pieces []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		pieces = append(pieces, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(pieces) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", path)
	}
	return pieces, nil
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the number of pieces.
func (t *Tokenizer) VocabSize() int {
	return len(t.idToPiece)
}

// Piece returns the piece for id, or "" if out of range.
func (t *Tokenizer) Piece(id int32) string {
	if id < 0 || int(id) >= len(t.idToPiece) {
		return ""
	}
	return t.idToPiece[id]
}

// CLSID returns the sequence-start token id, or -1 if absent.
func (t *Tokenizer) CLSID() int32 { return t.clsID }

// SEPID returns the sequence-end token id, or -1 if absent.
func (t *Tokenizer) SEPID() int32 { return t.sepID }

// PadID returns the padding token id, or -1 if absent.
func (t *Tokenizer) PadID() int32 { return t.padID }

// UnkID returns the unknown token id.
func (t *Tokenizer) UnkID() int32 { return t.unkID }
