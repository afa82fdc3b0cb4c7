// Package mecab tags Korean and Japanese text with the MeCab analyzer.
//
// MeCab is run as a subprocess per call; its output is one token per line
// with the surface form, a tab and comma-separated features whose first
// field is the part-of-speech tag. MeCab does not segment sentences, so the
// backend is a postag.FlatBackend. With mecab-ko-dic, sentence-final endings
// carry the EF tag (often inside compounds such as VCP+EF).
package mecab

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/google/shlex"

	postag "github.com/jamesainslie/go-postag"
)

const (
	// Name identifies the backend.
	Name = "mecab"

	// DefaultCommand runs mecab from PATH with its default dictionary.
	DefaultCommand = "mecab"

	// DefaultTerminalTag marks sentence-final endings in mecab-ko-dic.
	DefaultTerminalTag = "EF"

	eosMarker = "EOS"
)

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	command string
	logger  *slog.Logger
}

// WithCommand sets the command line used to start MeCab, for example
// "mecab -d /usr/local/lib/mecab/dic/mecab-ko-dic". Quoting follows shell
// rules (default: "mecab").
func WithCommand(command string) Option {
	return func(c *config) {
		if command != "" {
			c.command = command
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

// Analyzer is a postag.FlatBackend running MeCab.
type Analyzer struct {
	path   string
	args   []string
	logger *slog.Logger
}

var _ postag.FlatBackend = (*Analyzer)(nil)

// New resolves the MeCab binary. It does not start a process.
func New(opts ...Option) (*Analyzer, error) {
	cfg := config{
		command: DefaultCommand,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	argv, err := shlex.Split(cfg.command)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", cfg.command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", postag.ErrEngineUnavailable)
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", postag.ErrEngineUnavailable, err)
	}

	cfg.logger.Debug("mecab resolved", "path", path, "args", argv[1:])

	return &Analyzer{path: path, args: argv[1:], logger: cfg.logger}, nil
}

// Name implements postag.FlatBackend.
func (a *Analyzer) Name() string { return Name }

// TagFlat runs MeCab on text and parses its output.
func (a *Analyzer) TagFlat(ctx context.Context, text string) ([]postag.Token, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path, a.args...)
	cmd.Stdin = strings.NewReader(text + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running mecab: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("running mecab: %w", err)
	}

	return ParseOutput(&stdout)
}

// ParseOutput reads MeCab's default output format. EOS lines and blank
// lines are skipped.
func ParseOutput(r io.Reader) ([]postag.Token, error) {
	var tokens []postag.Token
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimRight(scanner.Text(), "\r")
		if s == "" || s == eosMarker {
			continue
		}

		surface, features, ok := strings.Cut(s, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab in %q", line, s)
		}
		tag, _, _ := strings.Cut(features, ",")
		if surface == "" || tag == "" {
			return nil, fmt.Errorf("line %d: empty surface or tag in %q", line, s)
		}
		tokens = append(tokens, postag.Token{Text: surface, Tag: tag})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mecab output: %w", err)
	}
	return tokens, nil
}
