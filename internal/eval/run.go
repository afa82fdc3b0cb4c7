package eval

import (
	"context"
	"fmt"
	"sort"

	postag "github.com/jamesainslie/go-postag"
)

// FileResult holds metrics for one gold file.
type FileResult struct {
	ID      string
	Metrics Metrics
}

// Report aggregates a corpus evaluation.
type Report struct {
	Total Metrics
	Files []FileResult // sorted by F1 ascending, worst first
}

// EvaluateGold tags the gold text and scores the predicted boundaries.
func EvaluateGold(ctx context.Context, tagger *postag.Tagger, g *Gold, cfg Config) (Metrics, error) {
	text := g.Text()
	doc, err := tagger.Tag(ctx, text)
	if err != nil {
		return Metrics{}, fmt.Errorf("tagging %s: %w", g.ID, err)
	}
	return Evaluate(Boundaries(text, doc), GoldBoundaries(g.Sentences), cfg), nil
}

// Run evaluates every gold file and micro-averages the counts.
func Run(ctx context.Context, tagger *postag.Tagger, golds []*Gold, cfg Config) (Report, error) {
	var (
		report                    Report
		totalTP, totalFP, totalFN int
	)

	for _, g := range golds {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		m, err := EvaluateGold(ctx, tagger, g, cfg)
		if err != nil {
			return Report{}, err
		}
		totalTP += m.TruePositives
		totalFP += m.FalsePositives
		totalFN += m.FalseNegatives
		report.Files = append(report.Files, FileResult{ID: g.ID, Metrics: m})
	}

	report.Total = Score(totalTP, totalFP, totalFN, cfg)

	sort.SliceStable(report.Files, func(i, j int) bool {
		return report.Files[i].Metrics.F1 < report.Files[j].Metrics.F1
	})

	return report, nil
}
