package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool shares the sessions of one tagging model between concurrent TagFlat
// calls. Every WordPiece chunk of a text is one Infer call, so a pool of n
// sessions tags at most n chunks at a time. All sessions are opened by
// NewPool; a missing model fails there rather than on the first text.
type Pool struct {
	model string
	size  int
	idle  chan *Session
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewPool opens size sessions over the model at modelPath; size <= 0 means 1.
func NewPool(modelPath string, size int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		model: modelPath,
		size:  size,
		idle:  make(chan *Session, size),
		done:  make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		s, err := NewSession(modelPath)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("opening tagger session %d of %d: %w", i+1, size, err)
		}
		p.idle <- s
	}
	return p, nil
}

// Acquire takes an idle session, waiting for one to be released. It returns
// ErrPoolClosed once the pool is closed.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	case s := <-p.idle:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release hands s back. After Close, s is closed instead.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = s.Close()
		return
	}
	select {
	case p.idle <- s:
	default:
		_ = s.Close()
	}
}

// Infer scores one chunk of token ids on whichever session is free.
func (p *Pool) Infer(ctx context.Context, inputIDs, attentionMask []int64) (Output, error) {
	s, err := p.Acquire(ctx)
	if err != nil {
		return Output{}, err
	}
	defer p.Release(s)

	return s.Infer(ctx, inputIDs, attentionMask)
}

// Close wakes blocked Acquire calls and closes the idle sessions. Sessions
// in use are closed as they are released.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)

	var errs []error
	for {
		select {
		case s := <-p.idle:
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}

// Size is the number of sessions the pool was opened with.
func (p *Pool) Size() int {
	return p.size
}

// ModelPath is the model file the sessions were opened from.
func (p *Pool) ModelPath() string {
	return p.model
}
