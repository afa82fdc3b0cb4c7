package postag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/unicode/norm"
)

// Tagger tags raw text, files and corpora with one engine and renders the
// result as a Document or a flat string. It is not safe for concurrent use.
type Tagger struct {
	backend    Backend
	segmenting bool
	encoder    Encoder
	form       *norm.Form
	logger     *slog.Logger
	onProgress ProgressFunc
}

// New creates a Tagger over an engine that segments sentences itself.
func New(backend Backend, opts ...Option) (*Tagger, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	_, reconstructing := backend.(*Reconstructor)
	return newTagger(backend, !reconstructing, cfg), nil
}

// NewFlat creates a Tagger over an engine that returns a flat token stream.
// Sentence boundaries are recovered by a Reconstructor keyed on terminalTag.
func NewFlat(backend FlatBackend, terminalTag string, opts ...Option) (*Tagger, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}

	rec, err := NewReconstructor(backend, terminalTag, opts...)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return newTagger(rec, false, cfg), nil
}

func newTagger(backend Backend, segmenting bool, cfg config) *Tagger {
	cfg.logger.Info("tagger initialized",
		"backend", backend.Name(),
		"segmenting", segmenting,
		"separator", cfg.separator)

	return &Tagger{
		backend:    backend,
		segmenting: segmenting,
		encoder:    Encoder{Separator: cfg.separator, Sentinel: cfg.sentinel},
		form:       cfg.form,
		logger:     cfg.logger,
		onProgress: cfg.onProgress,
	}
}

// Backend returns the engine the Tagger delegates to.
func (t *Tagger) Backend() Backend { return t.backend }

// Encoder returns the flat encoder configured for this Tagger.
func (t *Tagger) Encoder() Encoder { return t.encoder }

// Tag normalizes whitespace in text and returns its tagged sentences.
// Sentences without tokens are never returned.
func (t *Tagger) Tag(ctx context.Context, text string) (Document, error) {
	text = t.normalize(text)
	if text == "" {
		return nil, nil
	}

	doc, err := t.backend.Tag(ctx, text)
	if err != nil {
		if errors.Is(err, ErrBackendFailed) || errors.Is(err, ErrReconstructionTruncated) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendFailed, t.backend.Name(), err)
	}

	return doc.compact(), nil
}

// TagString is Tag followed by the flat encoding.
func (t *Tagger) TagString(ctx context.Context, text string) (string, error) {
	doc, err := t.Tag(ctx, text)
	if err != nil {
		return "", err
	}
	return t.encoder.Encode(doc), nil
}

// TagFile reads the whole file at path and tags it.
func (t *Tagger) TagFile(ctx context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t.Tag(ctx, string(data))
}

// TagFileTo tags the file at in and writes the flat encoding to out,
// creating or truncating it.
func (t *Tagger) TagFileTo(ctx context.Context, in, out string) error {
	return t.TagFileWith(ctx, in, out, FormatFlat)
}

// TagFileWith tags the file at in and writes it to out in format f.
func (t *Tagger) TagFileWith(ctx context.Context, in, out string, f Format) error {
	doc, err := t.TagFile(ctx, in)
	if err != nil {
		return err
	}

	data, err := t.Render(doc, f)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// CorpusResult lists what TagCorpus did with each path.
type CorpusResult struct {
	Written []string // output files, in input order
	Skipped []string // input paths that were missing or not regular files
}

// TagCorpus tags every path in order and writes the flat encoding to
// path+suffix. Paths that do not exist or are not regular files are logged
// as warnings and skipped; they never abort the batch.
func (t *Tagger) TagCorpus(ctx context.Context, paths []string, suffix string) (CorpusResult, error) {
	return t.TagCorpusWith(ctx, paths, suffix, FormatFlat)
}

// TagCorpusWith is TagCorpus with an explicit output format.
func (t *Tagger) TagCorpusWith(ctx context.Context, paths []string, suffix string, f Format) (CorpusResult, error) {
	var res CorpusResult

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		out := path + suffix
		if !isRegularFile(path) {
			t.logger.Warn("file does not exist, skipping", "path", path, "output", out)
			res.Skipped = append(res.Skipped, path)
			t.progress(i+1, len(paths), path)
			continue
		}

		if err := t.TagFileWith(ctx, path, out, f); err != nil {
			return res, fmt.Errorf("tagging %s: %w", path, err)
		}
		t.logger.Debug("tagged file", "path", path, "output", out)
		res.Written = append(res.Written, out)
		t.progress(i+1, len(paths), path)
	}

	return res, nil
}

func (t *Tagger) progress(done, total int, path string) {
	if t.onProgress != nil {
		t.onProgress(done, total, path)
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
