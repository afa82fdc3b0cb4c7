package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-postag/internal/eval"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score an engine's sentence boundaries against gold files",
		Long: `Tag gold files and compare the sentence boundaries found with the gold
segmentation. A gold file holds one sentence per line; leading "# Source:" and
"# Language:" comment lines are read as metadata. GOLD is a file or a
directory of .txt gold files.

Boundaries are counted in non-space characters, so engines that alter
whitespace are scored fairly.`,
	}

	for _, b := range backends {
		cmd.AddCommand(newEvalBackendCmd(a, b))
	}
	return cmd
}

func newEvalBackendCmd(a *app, b backend) *cobra.Command {
	var (
		ov        overrides
		tolerance int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   b.name + " GOLD",
		Short: "Evaluate the " + b.name + " engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ov.apply(cmd, a)

			golds, err := loadGold(args[0])
			if err != nil {
				return err
			}
			if len(golds) == 0 {
				return fmt.Errorf("no gold files in %s", args[0])
			}

			opts, err := a.taggerOptions()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tagger, closer, err := b.build(ctx, a, opts)
			if err != nil {
				return fmt.Errorf("starting %s: %w", b.name, err)
			}
			defer func() { _ = closer.Close() }()

			cfg := eval.DefaultConfig()
			cfg.Tolerance = tolerance
			report, err := eval.Run(ctx, tagger, golds, cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Evaluated %d gold files with %s (tolerance %d)\n\n", len(golds), b.name, tolerance)
			if verbose {
				fmt.Fprintf(w, "%-30s %8s %8s %8s\n", "File", "P", "R", "F1")
				for _, r := range report.Files {
					fmt.Fprintf(w, "%-30s %8.4f %8.4f %8.4f\n", r.ID, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1)
				}
				fmt.Fprintln(w)
			}
			m := report.Total
			fmt.Fprintf(w, "TP: %d  FP: %d  FN: %d\n", m.TruePositives, m.FalsePositives, m.FalseNegatives)
			fmt.Fprintf(w, "Precision: %.4f\n", m.Precision)
			fmt.Fprintf(w, "Recall:    %.4f\n", m.Recall)
			fmt.Fprintf(w, "F1:        %.4f\n", m.F1)
			return nil
		},
	}

	b.flags(cmd, &ov)
	cmd.Flags().IntVar(&tolerance, "tolerance", 0, "character tolerance for boundary matching")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-file scores")

	return cmd
}

func loadGold(path string) ([]*eval.Gold, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return eval.LoadCorpus(path)
	}
	g, err := eval.LoadGold(path)
	if err != nil {
		return nil, err
	}
	return []*eval.Gold{g}, nil
}
