package postag

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"

	"github.com/jamesainslie/go-postag/sentsplit"
)

func newTestTagger(t *testing.T, b Backend, opts ...Option) *Tagger {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	tagger, err := New(b, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return tagger
}

func TestNew_NoBackend(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
	if _, err := NewFlat(nil, "EF"); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
}

func TestNewFlat_NoTerminalTag(t *testing.T) {
	_, err := NewFlat(newDictBackend(koreanDict), "")
	if !errors.Is(err, ErrNoTerminalTag) {
		t.Errorf("expected ErrNoTerminalTag, got %v", err)
	}
}

func TestNew_LogsInitialization(t *testing.T) {
	var logs bytes.Buffer
	_, err := New(&sentenceBackend{}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "tagger initialized") || !strings.Contains(out, "backend=lines") {
		t.Errorf("expected initialization event, got:\n%s", out)
	}
}

func TestTagger_Tag_NormalizesSpaces(t *testing.T) {
	backend := &sentenceBackend{}
	tagger := newTestTagger(t, backend)

	if _, err := tagger.Tag(context.Background(), "  a  b   c  "); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	if len(backend.seen) != 1 || backend.seen[0] != "a b c" {
		t.Errorf("backend saw %q, want %q", backend.seen, "a b c")
	}
}

func TestTagger_Tag_UnicodeNormalization(t *testing.T) {
	backend := &sentenceBackend{}
	tagger := newTestTagger(t, backend, WithUnicodeNormalization(norm.NFC))

	decomposed := norm.NFD.String("학생")
	if _, err := tagger.Tag(context.Background(), decomposed); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if backend.seen[0] != "학생" {
		t.Errorf("backend saw %q, want composed form", backend.seen[0])
	}
}

func TestTagger_Tag_Empty(t *testing.T) {
	backend := &sentenceBackend{}
	tagger := newTestTagger(t, backend)

	doc, err := tagger.Tag(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if doc != nil {
		t.Errorf("expected nil document, got %v", doc)
	}
	if len(backend.seen) != 0 {
		t.Error("backend must not be called for blank input")
	}
}

func TestTagger_Tag_DropsEmptySentences(t *testing.T) {
	tagger := newTestTagger(t, &sentenceBackend{})

	doc, err := tagger.Tag(context.Background(), "one two\n\nthree\n")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(doc), doc)
	}
	for i, sent := range doc {
		if len(sent) == 0 {
			t.Errorf("sentence %d is empty", i)
		}
	}
}

func TestTagger_Tag_Idempotent(t *testing.T) {
	tagger, err := NewFlat(newDictBackend(koreanDict), "EF",
		WithSplitter(sentsplit.Rule{}), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}

	text := "저는 학생입니다. 저는 행복합니다."
	first, err := tagger.Tag(context.Background(), text)
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	second, err := tagger.Tag(context.Background(), text)
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	if DefaultEncoder.Encode(first) != DefaultEncoder.Encode(second) {
		t.Errorf("results differ:\n%v\n%v", first, second)
	}
}

func TestTagger_Tag_PreservesCharacters(t *testing.T) {
	tagger := newTestTagger(t, &sentenceBackend{})

	text := "alpha  beta\ngamma"
	doc, err := tagger.Tag(context.Background(), text)
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	want := strings.Join(strings.Fields(normalizeSpaces(text)), "")
	if got := doc.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestTaggerFlat_Tag_PreservesCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		// inserted is set when the input has no sentence-final punctuation
		// of its own, so every "." in the output is a Delimiter.
		inserted bool
	}{
		{"punctuated", "저는 학생입니다. 저는 행복합니다.", false},
		{"extra whitespace", "저는   학생입니다.\n저는  행복합니다.", false},
		{"unknown runes", "저는 Bob입니다. 행복합니다.", false},
		{"unpunctuated", "저는 학생입니다 저는 행복합니다", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tagger, err := NewFlat(newDictBackend(koreanDict), "EF",
				WithSplitter(sentsplit.Rule{}), WithLogger(discardLogger()))
			if err != nil {
				t.Fatalf("NewFlat failed: %v", err)
			}

			doc, err := tagger.Tag(context.Background(), tc.input)
			if err != nil {
				t.Fatalf("Tag failed: %v", err)
			}
			if len(doc) != 2 {
				t.Errorf("got %d sentences, want 2", len(doc))
			}

			got := doc.Text()
			if tc.inserted {
				got = strings.ReplaceAll(got, ".", "")
			}
			want := strings.Join(strings.Fields(normalizeSpaces(tc.input)), "")
			if got != want {
				t.Errorf("Text() = %q, want %q", got, want)
			}
		})
	}
}

func TestTagger_TagString(t *testing.T) {
	tagger := newTestTagger(t, &sentenceBackend{}, WithSeparator("_"))

	got, err := tagger.TagString(context.Background(), "the quick\nfox")
	if err != nil {
		t.Fatalf("TagString failed: %v", err)
	}

	want := "the_SHORT quick_LONG[ENDSENT]fox_SHORT"
	if got != want {
		t.Errorf("TagString = %q, want %q", got, want)
	}
}

func TestTagger_Tag_BackendFailure(t *testing.T) {
	backend := &sentenceBackend{err: errors.New("boom")}
	tagger := newTestTagger(t, backend)

	_, err := tagger.Tag(context.Background(), "text")
	if !errors.Is(err, ErrBackendFailed) {
		t.Errorf("expected ErrBackendFailed, got %v", err)
	}
	if len(backend.seen) != 1 {
		t.Errorf("backend called %d times, want 1", len(backend.seen))
	}
}

func TestTagger_TagFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte("hello big world"), 0o644); err != nil {
		t.Fatal(err)
	}

	tagger := newTestTagger(t, &sentenceBackend{})

	doc, err := tagger.TagFile(context.Background(), in)
	if err != nil {
		t.Fatalf("TagFile failed: %v", err)
	}
	if len(doc) != 1 || len(doc[0]) != 3 {
		t.Errorf("unexpected document: %v", doc)
	}

	out := filepath.Join(dir, "out.txt")
	if err := tagger.TagFileTo(context.Background(), in, out); err != nil {
		t.Fatalf("TagFileTo failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello|LONG big|SHORT world|LONG" {
		t.Errorf("output = %q", data)
	}
}

func TestTagger_TagFile_Missing(t *testing.T) {
	tagger := newTestTagger(t, &sentenceBackend{})

	_, err := tagger.TagFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestTagger_TagCorpus_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	exists := filepath.Join(dir, "exists.txt")
	missing := filepath.Join(dir, "missing.txt")
	if err := os.WriteFile(exists, []byte("some text"), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	var progress []string
	tagger := newTestTagger(t, &sentenceBackend{},
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithProgress(func(done, total int, path string) {
			progress = append(progress, filepath.Base(path))
		}))

	res, err := tagger.TagCorpus(context.Background(), []string{exists, missing}, "_OUT")
	if err != nil {
		t.Fatalf("TagCorpus failed: %v", err)
	}

	if len(res.Written) != 1 || res.Written[0] != exists+"_OUT" {
		t.Errorf("Written = %v", res.Written)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != missing {
		t.Errorf("Skipped = %v", res.Skipped)
	}

	if _, err := os.Stat(exists + "_OUT"); err != nil {
		t.Errorf("expected output file: %v", err)
	}
	if _, err := os.Stat(missing + "_OUT"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no output expected for missing input, stat err = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("directory has %d entries, want 2", len(entries))
	}

	if n := strings.Count(logs.String(), "level=WARN"); n != 1 {
		t.Errorf("got %d warnings, want 1:\n%s", n, logs.String())
	}
	if strings.Join(progress, ",") != "exists.txt,missing.txt" {
		t.Errorf("progress = %v", progress)
	}
}

func TestTagger_TagCorpus_DirectoryIsSkipped(t *testing.T) {
	dir := t.TempDir()
	tagger := newTestTagger(t, &sentenceBackend{})

	res, err := tagger.TagCorpus(context.Background(), []string{dir}, "_OUT")
	if err != nil {
		t.Fatalf("TagCorpus failed: %v", err)
	}
	if len(res.Skipped) != 1 || len(res.Written) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestTagger_TagCorpus_BackendFailureAborts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(a, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tagger := newTestTagger(t, &sentenceBackend{err: errors.New("down")})
	_, err := tagger.TagCorpus(context.Background(), []string{a}, "_OUT")
	if !errors.Is(err, ErrBackendFailed) {
		t.Errorf("expected ErrBackendFailed, got %v", err)
	}
}

func TestNormalizeSpaces(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"runs", "a  b   c", "a b c"},
		{"trim", "  padded  ", "padded"},
		{"newlines kept", "a\nb", "a\nb"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeSpaces(tc.input); got != tc.expected {
				t.Errorf("normalizeSpaces(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
