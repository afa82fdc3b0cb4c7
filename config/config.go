// Package config holds the postag command's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "postag.yaml"

// Config holds all configuration for the postag command.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	CoreNLP CoreNLPConfig `yaml:"corenlp"`
	MeCab   MeCabConfig   `yaml:"mecab"`
	Neural  NeuralConfig  `yaml:"neural"`
	Lexicon LexiconConfig `yaml:"lexicon"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls the encoding of tagged files.
type OutputConfig struct {
	Format    string `yaml:"format"`    // "flat", "json" or "proto"
	Separator string `yaml:"separator"` // token/tag separator of the flat format
	Sentinel  string `yaml:"sentinel"`  // sentence delimiter of the flat format
	Normalize string `yaml:"normalize"` // Unicode form applied before tagging: "", "NFC", "NFKC"
	Strict    bool   `yaml:"strict"`    // fail instead of warn when a flat engine's tokens run out

	// SplitterLanguage selects the bundled Punkt model used to split
	// reconstructed text for the mecab, neural and lexicon engines.
	// SplitterModel, a Punkt JSON file such as german.json, takes precedence.
	SplitterLanguage string `yaml:"splitter_language"`
	SplitterModel    string `yaml:"splitter_model"`
}

// CoreNLPConfig configures the CoreNLP server backend.
type CoreNLPConfig struct {
	URL      string        `yaml:"url"`
	Language string        `yaml:"language"`  // en, de or fr
	ModelDir string        `yaml:"model_dir"` // directory with the .tagger models, as seen by the server
	Timeout  time.Duration `yaml:"timeout"`
	Retries  int           `yaml:"retries"`
}

// MeCabConfig configures the MeCab backend.
type MeCabConfig struct {
	Command     string `yaml:"command"`
	TerminalTag string `yaml:"terminal_tag"`
}

// NeuralConfig configures the ONNX backend.
type NeuralConfig struct {
	Model       string `yaml:"model"`
	Vocab       string `yaml:"vocab"`
	Labels      string `yaml:"labels"`
	Library     string `yaml:"library"` // ONNX Runtime shared library
	// TerminalTag must be a tag that only sentence-final tokens carry, such
	// as "." in the Penn Treebank tagset. UPOS has no such tag: PUNCT also
	// marks commas. There is no default.
	TerminalTag string `yaml:"terminal_tag"`
	Lowercase   bool   `yaml:"lowercase"`
	PoolSize    int    `yaml:"pool_size"`
	MaxSeqLen   int    `yaml:"max_seq_len"`
}

// LexiconConfig configures the lexicon backend.
type LexiconConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:    "flat",
			Separator: "|",
			Sentinel:  "[ENDSENT]",

			SplitterLanguage: "english",
		},
		CoreNLP: CoreNLPConfig{
			URL:      "http://localhost:9000",
			Language: "en",
			Timeout:  60 * time.Second,
			Retries:  2,
		},
		MeCab: MeCabConfig{
			Command:     "mecab",
			TerminalTag: "EF",
		},
		Neural: NeuralConfig{
			Model:     "models/pos-tagger.onnx",
			Vocab:     "models/vocab.txt",
			Labels:    "models/labels.txt",
			PoolSize:  1,
			MaxSeqLen: 512,
		},
		Lexicon: LexiconConfig{
			Path: "lexicon.yaml",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "", "flat", "json", "proto":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	switch strings.ToUpper(c.Output.Normalize) {
	case "", "NFC", "NFD", "NFKC", "NFKD":
	default:
		return fmt.Errorf("output.normalize: unknown form %q", c.Output.Normalize)
	}
	if strings.ContainsAny(c.Output.Separator, " \t\n") {
		return fmt.Errorf("output.separator must not contain whitespace")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.CoreNLP.Retries < 0 {
		return fmt.Errorf("corenlp.retries must be >= 0")
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
