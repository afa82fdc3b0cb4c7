package postag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects how a Document is written to a file.
type Format string

// Supported output formats.
const (
	FormatFlat   Format = "flat"
	FormatJSON   Format = "json"
	FormatBinary Format = "proto"
)

// ParseFormat resolves a format name; the empty string means FormatFlat.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatFlat:
		return FormatFlat, nil
	case FormatJSON, FormatBinary:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want flat, json or proto)", name)
	}
}

// Render encodes doc in format f using this Tagger's flat encoder.
func (t *Tagger) Render(doc Document, f Format) ([]byte, error) {
	switch f {
	case "", FormatFlat:
		return []byte(t.encoder.Encode(doc)), nil
	case FormatJSON:
		if doc == nil {
			doc = Document{}
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return data, nil
	case FormatBinary:
		return doc.MarshalBinary()
	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}
