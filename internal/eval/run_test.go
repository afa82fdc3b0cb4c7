package eval

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	postag "github.com/jamesainslie/go-postag"
)

// periodBackend ends a sentence after every word ending in ".".
type periodBackend struct{}

func (periodBackend) Name() string { return "period" }

func (periodBackend) Tag(_ context.Context, text string) (postag.Document, error) {
	var (
		doc postag.Document
		cur postag.Sentence
	)
	for _, w := range strings.Fields(text) {
		cur = append(cur, postag.Token{Text: w, Tag: "X"})
		if strings.HasSuffix(w, ".") {
			doc = append(doc, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		doc = append(doc, cur)
	}
	return doc, nil
}

func newTestTagger(t *testing.T) *postag.Tagger {
	t.Helper()
	tagger, err := postag.New(periodBackend{}, postag.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("postag.New failed: %v", err)
	}
	return tagger
}

func TestEvaluateGold(t *testing.T) {
	tagger := newTestTagger(t)

	g := &Gold{ID: "g", Sentences: []string{"Hello world.", "How are you?"}}
	m, err := EvaluateGold(context.Background(), tagger, g, DefaultConfig())
	if err != nil {
		t.Fatalf("EvaluateGold failed: %v", err)
	}

	// The last sentence has no period but still ends at the end of text.
	if m.TruePositives != 2 || m.FalsePositives != 0 || m.FalseNegatives != 0 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestRun(t *testing.T) {
	tagger := newTestTagger(t)

	golds := []*Gold{
		{ID: "perfect", Sentences: []string{"One.", "Two."}},
		{ID: "merged", Sentences: []string{"Dr. Who", "is here."}},
	}

	report, err := Run(context.Background(), tagger, golds, DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(report.Files))
	}
	if report.Files[0].ID != "merged" {
		t.Errorf("expected worst file first, got %q", report.Files[0].ID)
	}
	if report.Total.TruePositives != 3 || report.Total.FalsePositives != 1 || report.Total.FalseNegatives != 1 {
		t.Errorf("unexpected totals %+v", report.Total)
	}
}

func TestRun_Canceled(t *testing.T) {
	tagger := newTestTagger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, tagger, []*Gold{{ID: "g", Sentences: []string{"x."}}}, DefaultConfig())
	if err == nil {
		t.Error("expected error for canceled context")
	}
}
