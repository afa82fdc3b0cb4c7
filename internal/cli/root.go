// Package cli implements the postag command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-postag/config"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   *slog.Logger
}

// NewRootCmd builds the postag command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "postag",
		Short: "Part-of-speech tag text files with pluggable tagging engines",
		Long: `postag tags every file named in a listing file and writes the result next to
it, one sentence per [ENDSENT]-separated block of text|TAG tokens.

Engines that cannot split sentences themselves (mecab, neural, lexicon) get
their boundaries recovered from sentence-final tags.

Example usage:
  postag corenlp files.txt              # writes <file>_CORENLP for each listed file
  postag mecab --suffix .pos files.txt  # Korean text through MeCab
  postag eval lexicon gold/             # boundary precision/recall against gold files`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", config.DefaultFile, "config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	for _, b := range backends {
		root.AddCommand(newTagCmd(a, b))
	}
	root.AddCommand(newEvalCmd(a))

	return root
}

// Execute runs the postag command and exits non-zero on error.
func Execute(version string) {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	levelName := cfg.Logging.Level
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return nil
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
