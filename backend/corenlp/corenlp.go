// Package corenlp tags text with a Stanford CoreNLP server.
//
// The server tokenizes, splits sentences and tags in one request, so the
// client is a segmenting postag.Backend. Supported languages are English,
// German and French.
package corenlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"

	postag "github.com/jamesainslie/go-postag"
)

// Name identifies the backend.
const Name = "corenlp"

const (
	// DefaultURL is the address of a locally started CoreNLP server.
	DefaultURL = "http://localhost:9000"

	// DefaultLanguage is the pipeline language when none is set.
	DefaultLanguage = "en"

	defaultTimeout = 60 * time.Second
	defaultRetries = 2
)

// models maps a language code to the tagger model file shipped with CoreNLP.
var models = map[string]string{
	"en": "english-left3words-distsim.tagger",
	"de": "german-hgc.tagger",
	"fr": "french.tagger",
}

// Languages returns the supported language codes.
func Languages() []string {
	return []string{"de", "en", "fr"}
}

// ModelFile returns the tagger model file name for lang.
func ModelFile(lang string) (string, error) {
	m, ok := models[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: en, de, fr)", postag.ErrUnsupportedLanguage, lang)
	}
	return m, nil
}

// Option configures a Client.
type Option func(*config)

type config struct {
	url      string
	language string
	modelDir string
	timeout  time.Duration
	retries  int
	logger   *slog.Logger
}

// WithURL sets the server address (default: http://localhost:9000).
func WithURL(url string) Option {
	return func(c *config) {
		if url != "" {
			c.url = url
		}
	}
}

// WithLanguage sets the pipeline language: en, de or fr (default: en).
func WithLanguage(lang string) Option {
	return func(c *config) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithModelDir makes the server load the language's tagger model from dir
// instead of its default model. dir must be readable by the server.
func WithModelDir(dir string) Option {
	return func(c *config) {
		c.modelDir = dir
	}
}

// WithTimeout sets the per-request timeout (default: 60s).
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets how many times a request failing at the transport level
// or with a 5xx status is retried (default: 2).
func WithRetries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.retries = n
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

// Client is a postag.Backend talking to a CoreNLP server.
type Client struct {
	http       *resty.Client
	language   string
	properties string
	logger     *slog.Logger
}

var _ postag.Backend = (*Client)(nil)

// New creates a client and checks that the server is ready.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := config{
		url:      DefaultURL,
		language: DefaultLanguage,
		timeout:  defaultTimeout,
		retries:  defaultRetries,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	model, err := ModelFile(cfg.language)
	if err != nil {
		return nil, err
	}

	props := map[string]string{
		"annotators":       "tokenize,ssplit,pos",
		"outputFormat":     "json",
		"pipelineLanguage": cfg.language,
	}
	if cfg.modelDir != "" {
		props["pos.model"] = filepath.Join(cfg.modelDir, model)
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}

	client := resty.New().
		SetBaseURL(cfg.url).
		SetTimeout(cfg.timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetLogger(restyLogger{cfg.logger})
	client.AddRetryCondition(retryCondition)

	c := &Client{
		http:       client,
		language:   cfg.language,
		properties: string(encoded),
		logger:     cfg.logger,
	}

	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	cfg.logger.Debug("corenlp server ready", "url", cfg.url, "language", cfg.language)
	return c, nil
}

// Name implements postag.Backend.
func (c *Client) Name() string { return Name }

// Language returns the pipeline language.
func (c *Client) Language() string { return c.language }

func (c *Client) ready(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/ready")
	if err != nil {
		return fmt.Errorf("%w: %w", postag.ErrEngineUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: readiness probe returned status %d", postag.ErrEngineUnavailable, resp.StatusCode())
	}
	return nil
}

// annotation is the subset of CoreNLP's JSON output the client reads.
type annotation struct {
	Sentences []struct {
		Tokens []struct {
			Word         string `json:"word"`
			OriginalText string `json:"originalText"`
			POS          string `json:"pos"`
		} `json:"tokens"`
	} `json:"sentences"`
}

// Tag implements postag.Backend. Token text is the token's original text
// when the server reports it, with internal whitespace replaced by U+00A0
// as CoreNLP does for its "word" field.
func (c *Client) Tag(ctx context.Context, text string) (postag.Document, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("properties", c.properties).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(text).
		Post("/")
	if err != nil {
		return nil, fmt.Errorf("annotate request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("annotate: server returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var ann annotation
	if err := json.Unmarshal(resp.Body(), &ann); err != nil {
		return nil, fmt.Errorf("decoding annotation: %w", err)
	}

	doc := make(postag.Document, 0, len(ann.Sentences))
	for _, s := range ann.Sentences {
		sent := make(postag.Sentence, 0, len(s.Tokens))
		for _, tok := range s.Tokens {
			word := tok.OriginalText
			if word == "" {
				word = tok.Word
			}
			sent = append(sent, postag.Token{Text: noBreakSpaces(word), Tag: tok.POS})
		}
		doc = append(doc, sent)
	}
	return doc, nil
}

// noBreakSpaces maps whitespace inside a token ("1 1/2") to U+00A0 so that
// tokens never contain the space that separates them in the flat form.
func noBreakSpaces(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '\u00a0'
		}
		return r
	}, word)
}

// retryCondition retries transport errors and server errors.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return r.StatusCode() >= http.StatusInternalServerError
}

// restyLogger routes resty's messages to slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "corenlp")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "corenlp")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "corenlp")
}
