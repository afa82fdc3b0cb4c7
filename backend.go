package postag

import "context"

// Backend is a tagging engine that segments text into sentences itself.
type Backend interface {
	// Name identifies the engine in logs and output suffixes.
	Name() string
	// Tag tokenizes, sentence-splits and tags text.
	Tag(ctx context.Context, text string) (Document, error)
}

// FlatBackend is a tagging engine that returns a single token stream with no
// sentence information.
type FlatBackend interface {
	Name() string
	TagFlat(ctx context.Context, text string) ([]Token, error)
}

// Splitter is a punctuation-based sentence tokenizer.
type Splitter interface {
	Split(text string) []string
}

// SplitterFunc adapts a function to the Splitter interface.
type SplitterFunc func(text string) []string

// Split calls f(text).
func (f SplitterFunc) Split(text string) []string { return f(text) }
