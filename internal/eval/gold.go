// Package eval measures the sentence segmentation of a tagger against
// one-sentence-per-line gold files.
package eval

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Header contains metadata from a gold file's leading comment lines.
type Header struct {
	Source   string
	Language string
}

// Gold is a reference segmentation.
type Gold struct {
	ID        string // filename without extension
	Source    string
	Language  string
	Sentences []string
}

// Text joins the gold sentences with single spaces, the input a tagger is
// evaluated on.
func (g *Gold) Text() string {
	return strings.Join(g.Sentences, " ")
}

// ParseGold reads a gold file body. Lines starting with "#" before the first
// sentence are header comments; blank lines are ignored.
func ParseGold(text string) (Header, []string, error) {
	var (
		h         Header
		sentences []string
		inBody    bool
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !inBody && strings.HasPrefix(line, "#") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if value, ok := strings.CutPrefix(line, "Source:"); ok {
				h.Source = strings.TrimSpace(value)
			} else if value, ok := strings.CutPrefix(line, "Language:"); ok {
				h.Language = strings.TrimSpace(value)
			}
			continue
		}

		inBody = true
		sentences = append(sentences, line)
	}

	if err := scanner.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("scan gold: %w", err)
	}

	return h, sentences, nil
}

// LoadGold loads and parses a gold file.
func LoadGold(path string) (*Gold, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	header, sentences, err := ParseGold(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%s: no sentences", path)
	}

	base := filepath.Base(path)
	return &Gold{
		ID:        strings.TrimSuffix(base, filepath.Ext(base)),
		Source:    header.Source,
		Language:  header.Language,
		Sentences: sentences,
	}, nil
}

// LoadCorpus loads all .txt gold files from a directory.
func LoadCorpus(dir string) ([]*Gold, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var golds []*Gold
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		g, err := LoadGold(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		golds = append(golds, g)
	}

	return golds, nil
}
