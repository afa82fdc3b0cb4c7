// Package neural tags text with an ONNX token-classification model.
//
// The model is any BERT-style tagger exported with inputs input_ids and
// attention_mask and a logits output of shape [batch, sequence, labels].
// Each word is tagged with the label of its first WordPiece. The backend
// does not segment sentences; wrap it with postag.NewFlat and a terminal tag
// that only sentence-final tokens carry in the model's label set. Penn
// Treebank labels work with "."; UPOS labels have no such tag.
package neural

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	postag "github.com/jamesainslie/go-postag"
	"github.com/jamesainslie/go-postag/inference"
	"github.com/jamesainslie/go-postag/tokenizer"
)

const (
	// Name identifies the backend.
	Name = "neural"

	// DefaultMaxSequenceLength is the position limit of BERT-base models.
	DefaultMaxSequenceLength = 512
)

// Option configures a Tagger.
type Option func(*config)

type config struct {
	poolSize    int
	maxSeqLen   int
	libraryPath string
	lowercase   bool
	logger      *slog.Logger
}

// WithPoolSize sets the number of ONNX sessions (default: 1).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithMaxSequenceLength sets the model's position limit, special tokens
// included (default: 512). Longer inputs are tagged in chunks.
func WithMaxSequenceLength(n int) Option {
	return func(c *config) {
		if n > 2 {
			c.maxSeqLen = n
		}
	}
}

// WithLibraryPath sets the ONNX Runtime shared library to load.
func WithLibraryPath(path string) Option {
	return func(c *config) {
		c.libraryPath = path
	}
}

// WithLowercase lowercases input for uncased vocabularies.
func WithLowercase() Option {
	return func(c *config) {
		c.lowercase = true
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Tagger is a postag.FlatBackend backed by an ONNX model.
type Tagger struct {
	pool      *inference.Pool
	tokenizer *tokenizer.Tokenizer
	labels    []string
	maxSeqLen int
	logger    *slog.Logger
}

var _ postag.FlatBackend = (*Tagger)(nil)

// New loads the model, its WordPiece vocabulary and its label file (one
// label per line, in output order).
func New(modelPath, vocabPath, labelsPath string, opts ...Option) (*Tagger, error) {
	cfg := config{
		poolSize:  1,
		maxSeqLen: DefaultMaxSequenceLength,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, p := range []string{modelPath, vocabPath, labelsPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", postag.ErrModelNotFound, p, err)
		}
	}

	labels, err := LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}

	var tokOpts []tokenizer.Option
	if cfg.lowercase {
		tokOpts = append(tokOpts, tokenizer.WithLowercase())
	}
	tok, err := tokenizer.New(vocabPath, tokOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer: %w", err)
	}

	inference.SetLibraryPath(cfg.libraryPath)
	pool, err := inference.NewPool(modelPath, cfg.poolSize)
	if err != nil {
		_ = tok.Close() // Best-effort cleanup; original error takes precedence
		return nil, fmt.Errorf("%w: %w", postag.ErrEngineUnavailable, err)
	}

	cfg.logger.Debug("neural tagger loaded",
		"model", modelPath,
		"labels", len(labels),
		"vocab", tok.VocabSize(),
		"pool_size", pool.Size(),
	)

	return &Tagger{
		pool:      pool,
		tokenizer: tok,
		labels:    labels,
		maxSeqLen: cfg.maxSeqLen,
		logger:    cfg.logger,
	}, nil
}

// LoadLabels reads a label file, one label per line. Blank lines are ignored.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", postag.ErrModelNotFound, err)
	}
	defer func() { _ = f.Close() }()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if l := strings.TrimSpace(scanner.Text()); l != "" {
			labels = append(labels, l)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label file %s is empty", path)
	}
	return labels, nil
}

// Name implements postag.FlatBackend.
func (t *Tagger) Name() string { return Name }

// Labels returns the model's tag set.
func (t *Tagger) Labels() []string { return t.labels }

// TagFlat tags every word of text. Punctuation and symbols are words of
// their own.
func (t *Tagger) TagFlat(ctx context.Context, text string) ([]postag.Token, error) {
	words := tokenizer.PreTokenize(text)
	if len(words) == 0 {
		return nil, nil
	}
	pieces := t.tokenizer.EncodeWords(words)

	tags := make([]string, len(words))
	for _, chunk := range chunkPieces(pieces, t.maxSeqLen-2) {
		ids, mask := t.sequence(chunk)
		out, err := t.pool.Infer(ctx, ids, mask)
		if err != nil {
			return nil, err
		}
		if err := assignTags(tags, chunk, out, t.labels); err != nil {
			return nil, err
		}
	}

	tokens := make([]postag.Token, len(words))
	for i, w := range words {
		tokens[i] = postag.Token{Text: w.Text, Tag: tags[i]}
	}
	return tokens, nil
}

// sequence frames a chunk with [CLS] and [SEP] when the vocabulary has them.
func (t *Tagger) sequence(chunk []tokenizer.TokenInfo) (ids, mask []int64) {
	ids = make([]int64, 0, len(chunk)+2)
	if cls := t.tokenizer.CLSID(); cls >= 0 {
		ids = append(ids, int64(cls))
	}
	for _, p := range chunk {
		ids = append(ids, int64(p.ID))
	}
	if sep := t.tokenizer.SEPID(); sep >= 0 {
		ids = append(ids, int64(sep))
	}

	mask = make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return ids, mask
}

// Close releases the session pool and tokenizer.
func (t *Tagger) Close() error {
	var errs []error
	if t.pool != nil {
		if err := t.pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if t.tokenizer != nil {
		if err := t.tokenizer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// chunkPieces groups pieces into runs of at most limit, never splitting a
// word. A word longer than limit keeps only its first limit pieces.
func chunkPieces(pieces []tokenizer.TokenInfo, limit int) [][]tokenizer.TokenInfo {
	if limit <= 0 {
		limit = 1
	}

	var chunks [][]tokenizer.TokenInfo
	var cur []tokenizer.TokenInfo
	for start := 0; start < len(pieces); {
		end := start + 1
		for end < len(pieces) && pieces[end].Word == pieces[start].Word {
			end++
		}
		word := pieces[start:end]
		if len(word) > limit {
			word = word[:limit]
		}

		if len(cur)+len(word) > limit {
			chunks = append(chunks, cur)
			cur = nil
		}
		cur = append(cur, word...)
		start = end
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// assignTags sets tags[word] from the first piece of each word in chunk.
// Row 0 of out is [CLS] when present, so positions are offset by the
// difference between the output length and the chunk length.
func assignTags(tags []string, chunk []tokenizer.TokenInfo, out inference.Output, labels []string) error {
	if out.Labels != len(labels) {
		return fmt.Errorf("model produces %d labels, label file has %d", out.Labels, len(labels))
	}
	offset := 0
	if out.Positions > len(chunk) {
		offset = 1
	}
	if out.Positions < len(chunk)+offset {
		return fmt.Errorf("model returned %d positions for %d pieces", out.Positions, len(chunk))
	}

	for i, p := range chunk {
		if !p.First {
			continue
		}
		best := inference.Argmax(out.Row(i + offset))
		if best < 0 {
			return fmt.Errorf("empty scores at position %d", i+offset)
		}
		tags[p.Word] = labels[best]
	}
	return nil
}
