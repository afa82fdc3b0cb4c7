package postag

import "strings"

// normalizeSpaces collapses runs of U+0020 into a single space and trims
// surrounding whitespace. Other whitespace (newlines, tabs) is kept inside the
// text; several engines emit a token for every space run otherwise.
func normalizeSpaces(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

func (t *Tagger) normalize(text string) string {
	if t.form != nil {
		text = t.form.String(text)
	}
	return normalizeSpaces(text)
}
