//go:build ignore

// Convert Universal Dependencies CoNLL-U files into gold files for
// "postag eval": one sentence per line, taken from the "# text =" comments.
// Usage: go run ./scripts/conllu-gold.go [-max N] -out testdata/gold FILE.conllu...
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	outDir := flag.String("out", "testdata/gold", "output directory")
	maxSentences := flag.Int("max", 0, "keep at most N sentences per file (0 = all)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: conllu-gold [-max N] -out DIR FILE.conllu...")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	for _, inFile := range flag.Args() {
		fmt.Printf("Processing %s...\n", inFile)
		sentences, err := readSentences(inFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}
		if *maxSentences > 0 && len(sentences) > *maxSentences {
			sentences = sentences[:*maxSentences]
		}

		base := strings.TrimSuffix(filepath.Base(inFile), filepath.Ext(inFile))
		outFile := filepath.Join(*outDir, base+".txt")
		if err := writeGold(outFile, inFile, language(base), sentences); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			continue
		}

		fmt.Printf("  -> %s (%d sentences)\n", outFile, len(sentences))
	}
}

func readSentences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var (
		sentences  []string
		currentTxt string
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// Metadata line with sentence text
		if text, ok := strings.CutPrefix(line, "# text = "); ok {
			currentTxt = strings.TrimSpace(text)
			continue
		}

		// Blank line = end of sentence
		if line == "" && currentTxt != "" {
			sentences = append(sentences, currentTxt)
			currentTxt = ""
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	// Don't forget last sentence if no trailing blank
	if currentTxt != "" {
		sentences = append(sentences, currentTxt)
	}

	return sentences, nil
}

// language takes the treebank prefix of a UD file name, e.g. "ko" from
// "ko_kaist-ud-dev".
func language(base string) string {
	lang, _, ok := strings.Cut(base, "_")
	if !ok {
		return ""
	}
	return lang
}

func writeGold(path, source, lang string, sentences []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# Source: %s\n", filepath.Base(source))
	if lang != "" {
		fmt.Fprintf(w, "# Language: %s\n", lang)
	}
	fmt.Fprintln(w)
	for _, s := range sentences {
		fmt.Fprintln(w, s)
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
