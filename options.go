package postag

import (
	"log/slog"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultSeparator joins a token's text and tag in the flat encoding.
	DefaultSeparator = "|"

	// DefaultSentinel joins sentences in the flat encoding.
	DefaultSentinel = "[ENDSENT]"
)

// Option configures a Tagger.
type Option func(*config)

// ProgressFunc is called after each corpus path is handled.
type ProgressFunc func(done, total int, path string)

type config struct {
	separator  string
	sentinel   string
	logger     *slog.Logger
	splitter   Splitter
	form       *norm.Form
	strict     bool
	onProgress ProgressFunc
}

func defaultConfig() config {
	return config{
		separator: DefaultSeparator,
		sentinel:  DefaultSentinel,
		logger:    slog.Default(),
	}
}

// WithSeparator sets the token/tag separator of the flat encoding (default: "|").
func WithSeparator(sep string) Option {
	return func(c *config) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// WithSentinel sets the sentence delimiter of the flat encoding (default: "[ENDSENT]").
func WithSentinel(s string) Option {
	return func(c *config) {
		if s != "" {
			c.sentinel = s
		}
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

// WithSplitter sets the sentence tokenizer used with flat backends
// (default: English Punkt, see sentsplit.NewPunkt).
func WithSplitter(s Splitter) Option {
	return func(c *config) {
		if s != nil {
			c.splitter = s
		}
	}
}

// WithUnicodeNormalization applies form f to input text before whitespace
// normalization. Off by default.
func WithUnicodeNormalization(f norm.Form) Option {
	return func(c *config) {
		c.form = &f
	}
}

// WithStrictReconstruction makes a flat backend's token stream running out
// before the end of the text an error instead of a warning.
func WithStrictReconstruction() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithProgress registers a callback invoked by TagCorpus after each path.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.onProgress = fn
	}
}
