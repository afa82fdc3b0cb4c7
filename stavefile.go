//go:build stave

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/postag"

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles the postag binary with version information.
func Build() error {
	st.Deps(Init)

	rebuild, err := target.Glob(binary, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Println("postag is up to date")
		}
		return nil
	}

	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", binary, "./cmd/postag")
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode.
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// TestModel runs the ONNX tests. ONNXRUNTIME_LIB must point at the shared
// library and testdata/ must hold pos-tagger.{onnx,vocab,labels}.
func TestModel() error {
	st.Deps(Init)
	if os.Getenv("ONNXRUNTIME_LIB") == "" {
		return fmt.Errorf("ONNXRUNTIME_LIB is not set")
	}
	return sh.RunV("go", "test", "-v", "./inference/...", "./backend/neural/...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// LintFix runs golangci-lint with auto-fix enabled.
func LintFix() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts and coverage output.
func Clean() error {
	for _, a := range []string{"bin/", "coverage.out", "coverage.html"} {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and installs postag to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	dst := filepath.Join(bin, "postag")
	if runtime.GOOS == "windows" {
		dst += ".exe"
	}
	if err := sh.Copy(dst, binary); err != nil {
		return fmt.Errorf("installing postag: %w", err)
	}
	if st.Verbose() {
		fmt.Printf("Installed postag to %s\n", dst)
	}
	return nil
}

// Gold namespace for gold-standard segmentation files.
type Gold st.Namespace

// Generate converts the CoNLL-U files in testdata/ud into testdata/gold.
func (Gold) Generate() error {
	files, err := filepath.Glob("testdata/ud/*.conllu")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no CoNLL-U files in testdata/ud")
	}

	args := append([]string{"run", "./scripts/conllu-gold.go", "-out", "testdata/gold"}, files...)
	return sh.RunV("go", args...)
}

// Eval namespace for segmentation scoring.
type Eval st.Namespace

// Lexicon scores the lexicon engine. POSTAG_LEXICON selects the lexicon
// (default: lexicon.yaml).
func (Eval) Lexicon() error {
	st.Deps(Build)
	return sh.RunV(binary, "eval", "lexicon", "-v", "--lexicon", envOr("POSTAG_LEXICON", "lexicon.yaml"), goldDir())
}

// MeCab scores MeCab on Korean gold files. POSTAG_MECAB overrides the
// command line.
func (Eval) MeCab() error {
	st.Deps(Build)
	return sh.RunV(binary, "eval", "mecab", "-v", "--command", envOr("POSTAG_MECAB", "mecab"), goldDir())
}

// CoreNLP scores a running CoreNLP server. POSTAG_CORENLP_URL overrides
// the address.
func (Eval) CoreNLP() error {
	st.Deps(Build)
	return sh.RunV(binary, "eval", "corenlp", "-v", "--url", envOr("POSTAG_CORENLP_URL", "http://localhost:9000"), goldDir())
}

func goldDir() string {
	return envOr("POSTAG_GOLD", "testdata/gold")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

// Coverage generates a coverage report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Tidy runs go mod tidy and verifies the go.sum is clean.
func Tidy() error {
	if err := sh.Run("go", "mod", "tidy"); err != nil {
		return err
	}
	// Verify no changes to go.sum (useful for CI)
	output, err := sh.Output("git", "diff", "--exit-code", "go.sum")
	if err != nil {
		if output != "" {
			return fmt.Errorf("go.sum is not clean:\n%s", output)
		}
	}
	return nil
}
