package postag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jamesainslie/go-postag/sentsplit"
)

// Reconstruction is the result of inserting synthetic delimiters into text.
type Reconstruction struct {
	// Text is the input with a Delimiter after every sentence-final token.
	Text string
	// Delimiters is the number of delimiters inserted.
	Delimiters int
	// Tail is the part of the input left unwalked because the token stream
	// ran out. It is appended to Text unchanged.
	Tail string
	// Unconsumed is the rune length of Tail.
	Unconsumed int
	// PendingTokens is the number of tokens never matched against the text.
	PendingTokens int
}

// Truncated reports whether the token stream ran out before non-space text.
func (r Reconstruction) Truncated() bool {
	return strings.TrimSpace(r.Tail) != ""
}

// Reconstructor recovers sentence boundaries for a FlatBackend. It tags the
// whole text once, translates a sentence-final tag into punctuation, splits
// the result with a punctuation-based Splitter and re-tags each sentence.
// Reconstructor implements Backend.
type Reconstructor struct {
	backend  FlatBackend
	marker   string
	splitter Splitter
	strict   bool
	logger   *slog.Logger
}

// NewReconstructor wraps backend. terminalTag is matched as a substring of
// each token's tag (e.g. "EF" matches "VCP+EF").
func NewReconstructor(backend FlatBackend, terminalTag string, opts ...Option) (*Reconstructor, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	if terminalTag == "" {
		return nil, ErrNoTerminalTag
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.splitter == nil {
		punkt, err := sentsplit.NewPunkt("english")
		if err != nil {
			return nil, fmt.Errorf("loading default sentence splitter: %w", err)
		}
		cfg.splitter = punkt
	}

	return &Reconstructor{
		backend:  backend,
		marker:   terminalTag,
		splitter: cfg.splitter,
		strict:   cfg.strict,
		logger:   cfg.logger,
	}, nil
}

// Name returns the wrapped backend's name.
func (r *Reconstructor) Name() string {
	return r.backend.Name()
}

// Reconstruct tags text once and walks it character by character, inserting
// a Delimiter after each token whose tag contains the terminal marker.
func (r *Reconstructor) Reconstruct(ctx context.Context, text string) (Reconstruction, error) {
	tokens, err := r.backend.TagFlat(ctx, text)
	if err != nil {
		return Reconstruction{}, fmt.Errorf("%w: %s: %w", ErrBackendFailed, r.backend.Name(), err)
	}

	var (
		rec   Reconstruction
		out   strings.Builder
		state = newWalkState(tokens)
	)
	out.Grow(len(text) + len(text)/8)

	for i := 0; i < len(text); {
		if state.exhausted() {
			rec.Tail = text[i:]
			rec.Unconsumed = utf8.RuneCountInString(rec.Tail)
			out.WriteString(rec.Tail)
			break
		}

		// Invalid UTF-8 is copied through byte for byte, not as U+FFFD.
		_, size := utf8.DecodeRuneInString(text[i:])
		ch := text[i : i+size]
		i += size
		out.WriteString(ch)

		var res stepResult
		state, res = step(state, ch, r.marker)
		if res.delimit {
			out.WriteString(Delimiter)
			rec.Delimiters++
		}
	}

	rec.Text = out.String()
	rec.PendingTokens = state.remaining()
	return rec, nil
}

// Tag implements Backend.
func (r *Reconstructor) Tag(ctx context.Context, text string) (Document, error) {
	rec, err := r.Reconstruct(ctx, text)
	if err != nil {
		return nil, err
	}

	if rec.Truncated() {
		if r.strict {
			return nil, fmt.Errorf("%w: %d characters unconsumed", ErrReconstructionTruncated, rec.Unconsumed)
		}
		r.logger.Warn("token stream exhausted before end of text",
			"backend", r.backend.Name(),
			"unconsumed", rec.Unconsumed)
	}
	if rec.PendingTokens > 0 {
		r.logger.Warn("tokens left unmatched after end of text",
			"backend", r.backend.Name(),
			"pending", rec.PendingTokens)
	}

	delim := strings.TrimSpace(Delimiter)
	var doc Document
	for _, sent := range r.splitter.Split(rec.Text) {
		sent = strings.TrimSpace(sent)
		if sent == "" || sent == delim {
			continue
		}

		tokens, err := r.backend.TagFlat(ctx, sent)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBackendFailed, r.backend.Name(), err)
		}
		if len(tokens) == 0 {
			continue
		}
		doc = append(doc, Sentence(tokens))
	}

	r.logger.Debug("reconstructed sentence boundaries",
		"backend", r.backend.Name(),
		"delimiters", rec.Delimiters,
		"sentences", len(doc))

	return doc, nil
}
