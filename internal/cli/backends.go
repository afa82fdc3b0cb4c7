package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	postag "github.com/jamesainslie/go-postag"
	"github.com/jamesainslie/go-postag/backend/corenlp"
	"github.com/jamesainslie/go-postag/backend/lexicon"
	"github.com/jamesainslie/go-postag/backend/mecab"
	"github.com/jamesainslie/go-postag/backend/neural"
	"github.com/jamesainslie/go-postag/sentsplit"
)

// backend describes one selectable tagging engine.
type backend struct {
	name  string
	short string
	flags func(cmd *cobra.Command, ov *overrides)
	build func(ctx context.Context, a *app, opts []postag.Option) (*postag.Tagger, io.Closer, error)
}

// overrides are command-line values that take precedence over the config file.
type overrides struct {
	url         string
	language    string
	modelDir    string
	command     string
	terminalTag string
	model       string
	vocab       string
	labels      string
	library     string
	lexicon     string
}

var backends = []backend{
	{
		name:  corenlp.Name,
		short: "Tag with a Stanford CoreNLP server (en, de, fr)",
		flags: func(cmd *cobra.Command, ov *overrides) {
			cmd.Flags().StringVar(&ov.url, "url", "", "CoreNLP server URL")
			cmd.Flags().StringVar(&ov.language, "language", "", "pipeline language: en, de or fr")
			cmd.Flags().StringVar(&ov.modelDir, "model-dir", "", "directory with .tagger models, as seen by the server")
		},
		build: buildCoreNLP,
	},
	{
		name:  mecab.Name,
		short: "Tag Korean text with MeCab, recovering sentences from EF endings",
		flags: func(cmd *cobra.Command, ov *overrides) {
			cmd.Flags().StringVar(&ov.command, "command", "", "MeCab command line")
			cmd.Flags().StringVar(&ov.terminalTag, "terminal-tag", "", "tag marking sentence-final tokens")
		},
		build: buildMeCab,
	},
	{
		name:  neural.Name,
		short: "Tag with an ONNX token-classification model",
		flags: func(cmd *cobra.Command, ov *overrides) {
			cmd.Flags().StringVar(&ov.model, "model", "", "ONNX model file")
			cmd.Flags().StringVar(&ov.vocab, "vocab", "", "WordPiece vocabulary file")
			cmd.Flags().StringVar(&ov.labels, "labels", "", "label file, one tag per line")
			cmd.Flags().StringVar(&ov.library, "onnxruntime", "", "ONNX Runtime shared library")
			cmd.Flags().StringVar(&ov.terminalTag, "terminal-tag", "", "tag marking sentence-final tokens")
		},
		build: buildNeural,
	},
	{
		name:  lexicon.Name,
		short: "Tag with a YAML lexicon",
		flags: func(cmd *cobra.Command, ov *overrides) {
			cmd.Flags().StringVar(&ov.lexicon, "lexicon", "", "lexicon file")
		},
		build: buildLexicon,
	},
}

// apply copies the flags the user set onto the loaded config.
func (ov *overrides) apply(cmd *cobra.Command, a *app) {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	cfg := a.cfg

	set("url", &cfg.CoreNLP.URL, ov.url)
	set("language", &cfg.CoreNLP.Language, ov.language)
	set("model-dir", &cfg.CoreNLP.ModelDir, ov.modelDir)
	set("command", &cfg.MeCab.Command, ov.command)
	set("model", &cfg.Neural.Model, ov.model)
	set("vocab", &cfg.Neural.Vocab, ov.vocab)
	set("labels", &cfg.Neural.Labels, ov.labels)
	set("onnxruntime", &cfg.Neural.Library, ov.library)
	set("lexicon", &cfg.Lexicon.Path, ov.lexicon)
	if cmd.Flags().Changed("terminal-tag") {
		switch cmd.Name() {
		case mecab.Name:
			cfg.MeCab.TerminalTag = ov.terminalTag
		case neural.Name:
			cfg.Neural.TerminalTag = ov.terminalTag
		}
	}
}

// taggerOptions maps the output section of the config to Tagger options.
func (a *app) taggerOptions() ([]postag.Option, error) {
	out := a.cfg.Output
	opts := []postag.Option{
		postag.WithLogger(a.logger),
		postag.WithSeparator(out.Separator),
		postag.WithSentinel(out.Sentinel),
	}

	if out.Normalize != "" {
		form, err := parseForm(out.Normalize)
		if err != nil {
			return nil, err
		}
		opts = append(opts, postag.WithUnicodeNormalization(form))
	}
	if out.Strict {
		opts = append(opts, postag.WithStrictReconstruction())
	}
	switch {
	case out.SplitterModel != "":
		punkt, err := sentsplit.LoadPunkt(out.SplitterModel)
		if err != nil {
			return nil, fmt.Errorf("output.splitter_model: %w", err)
		}
		opts = append(opts, postag.WithSplitter(punkt))
	case out.SplitterLanguage != "":
		punkt, err := sentsplit.NewPunkt(out.SplitterLanguage)
		if err != nil {
			return nil, fmt.Errorf("output.splitter_language: %w", err)
		}
		opts = append(opts, postag.WithSplitter(punkt))
	}
	return opts, nil
}

func parseForm(name string) (norm.Form, error) {
	switch strings.ToUpper(name) {
	case "NFC":
		return norm.NFC, nil
	case "NFD":
		return norm.NFD, nil
	case "NFKC":
		return norm.NFKC, nil
	case "NFKD":
		return norm.NFKD, nil
	default:
		return 0, fmt.Errorf("unknown normalization form %q", name)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func buildCoreNLP(ctx context.Context, a *app, opts []postag.Option) (*postag.Tagger, io.Closer, error) {
	c := a.cfg.CoreNLP
	client, err := corenlp.New(ctx,
		corenlp.WithURL(c.URL),
		corenlp.WithLanguage(c.Language),
		corenlp.WithModelDir(c.ModelDir),
		corenlp.WithTimeout(c.Timeout),
		corenlp.WithRetries(c.Retries),
		corenlp.WithLogger(a.logger),
	)
	if err != nil {
		return nil, nil, err
	}
	tagger, err := postag.New(client, opts...)
	if err != nil {
		return nil, nil, err
	}
	return tagger, nopCloser{}, nil
}

func buildMeCab(_ context.Context, a *app, opts []postag.Option) (*postag.Tagger, io.Closer, error) {
	c := a.cfg.MeCab
	analyzer, err := mecab.New(mecab.WithCommand(c.Command), mecab.WithLogger(a.logger))
	if err != nil {
		return nil, nil, err
	}
	tagger, err := postag.NewFlat(analyzer, c.TerminalTag, opts...)
	if err != nil {
		return nil, nil, err
	}
	return tagger, nopCloser{}, nil
}

func buildNeural(_ context.Context, a *app, opts []postag.Option) (*postag.Tagger, io.Closer, error) {
	c := a.cfg.Neural
	if c.TerminalTag == "" {
		return nil, nil, fmt.Errorf("%w: set neural.terminal_tag or --terminal-tag to a tag only sentence-final tokens carry (e.g. \".\" for Penn Treebank labels)", postag.ErrNoTerminalTag)
	}
	nopts := []neural.Option{
		neural.WithLibraryPath(c.Library),
		neural.WithPoolSize(c.PoolSize),
		neural.WithMaxSequenceLength(c.MaxSeqLen),
		neural.WithLogger(a.logger),
	}
	if c.Lowercase {
		nopts = append(nopts, neural.WithLowercase())
	}

	model, err := neural.New(c.Model, c.Vocab, c.Labels, nopts...)
	if err != nil {
		return nil, nil, err
	}
	tagger, err := postag.NewFlat(model, c.TerminalTag, opts...)
	if err != nil {
		_ = model.Close()
		return nil, nil, err
	}
	return tagger, model, nil
}

func buildLexicon(_ context.Context, a *app, opts []postag.Option) (*postag.Tagger, io.Closer, error) {
	lex, err := lexicon.Load(a.cfg.Lexicon.Path)
	if err != nil {
		return nil, nil, err
	}
	dict, err := lexicon.New(lex)
	if err != nil {
		return nil, nil, err
	}
	tagger, err := postag.NewFlat(dict, dict.TerminalTag(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return tagger, nopCloser{}, nil
}
