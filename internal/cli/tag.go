package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	postag "github.com/jamesainslie/go-postag"
)

func newTagCmd(a *app, b backend) *cobra.Command {
	var (
		ov       overrides
		suffix   string
		format   string
		progress bool
	)

	cmd := &cobra.Command{
		Use:   b.name + " LISTING",
		Short: b.short,
		Long: fmt.Sprintf(`Tag every file named in LISTING with the %s engine.

LISTING holds one path per line. Blank lines and lines starting with "#" are
ignored; lines with glob patterns (including "**") are expanded. Each input is
written to the same path plus a suffix (default _%s). Missing files are
reported and skipped.`, b.name, strings.ToUpper(b.name)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ov.apply(cmd, a)

			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}
			f, err := postag.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("suffix") {
				suffix = "_" + strings.ToUpper(b.name)
			}

			paths, err := readListing(args[0], a.logger)
			if err != nil {
				return err
			}

			opts, err := a.taggerOptions()
			if err != nil {
				return err
			}
			var bar *progressbar.ProgressBar
			if progress && len(paths) > 0 {
				bar = newProgressBar(cmd, len(paths))
				opts = append(opts, postag.WithProgress(func(done, _ int, _ string) {
					_ = bar.Set(done)
				}))
			}

			ctx := cmd.Context()
			tagger, closer, err := b.build(ctx, a, opts)
			if err != nil {
				return fmt.Errorf("starting %s: %w", b.name, err)
			}
			defer func() { _ = closer.Close() }()

			fmt.Fprintf(cmd.OutOrStdout(), "POS tagging and writing %d files\n", len(paths))

			res, err := tagger.TagCorpusWith(ctx, paths, suffix, f)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Written: %d, skipped: %d\n", len(res.Written), len(res.Skipped))
			return nil
		},
	}

	b.flags(cmd, &ov)
	cmd.Flags().StringVar(&suffix, "suffix", "", "output file suffix (default _"+strings.ToUpper(b.name)+")")
	cmd.Flags().StringVar(&format, "format", "", "output format: flat, json or proto (default from config)")
	cmd.Flags().BoolVar(&progress, "progress", true, "show a progress bar")

	return cmd
}

func newProgressBar(cmd *cobra.Command, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Tagging[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)
}

// readListing returns the paths named in a listing file, in order. Glob
// patterns are expanded in lexical order; a pattern without matches is
// logged and contributes nothing.
func readListing(path string, logger *slog.Logger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	defer func() { _ = f.Close() }()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !hasGlobMeta(line) {
			paths = append(paths, line)
			continue
		}

		matches, err := doublestar.FilepathGlob(line, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("listing pattern %q: %w", line, err)
		}
		if len(matches) == 0 {
			logger.Warn("pattern matched no files", "pattern", line)
			continue
		}
		paths = append(paths, matches...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	return paths, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
