package postag

import "strings"

// Delimiter is the synthetic sentence terminator inserted after a token whose
// tag carries the terminal marker.
const Delimiter = ". "

// walkState is the position of a character-by-character walk over raw text
// against a queue of tagged tokens. The raw-text cursor is owned by the
// caller; next is the queue cursor.
type walkState struct {
	pending string
	queue   []Token
	next    int
}

// stepResult describes what consuming one character did.
type stepResult struct {
	// matched is set when the pending buffer completed the front token.
	matched bool
	// delimit is set when a Delimiter must follow the character.
	delimit bool
	// token is the token that was matched, if any.
	token Token
}

func newWalkState(tokens []Token) walkState {
	queue := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		// Whitespace tokens can never equal a stripped buffer.
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		queue = append(queue, t)
	}
	return walkState{queue: queue}
}

// exhausted reports whether every token has been matched.
func (s walkState) exhausted() bool {
	return s.next >= len(s.queue)
}

// remaining returns the number of tokens not yet matched.
func (s walkState) remaining() int {
	return len(s.queue) - s.next
}

// step appends ch, the original bytes of one character, to the pending buffer
// and tries to complete the front token.
// The token is evaluated on its own: a delimiter is requested only if that
// token's tag contains marker and the completed buffer is not a lone ".".
// step must not be called on an exhausted state.
func step(s walkState, ch string, marker string) (walkState, stepResult) {
	s.pending += ch

	front := s.queue[s.next]
	word := strings.TrimSpace(s.pending)
	if word != front.Text {
		return s, stepResult{}
	}

	res := stepResult{
		matched: true,
		delimit: strings.Contains(front.Tag, marker) && word != ".",
		token:   front,
	}
	s.pending = ""
	s.next++
	return s, res
}
