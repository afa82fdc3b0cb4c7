// Package inference runs token-classification models with ONNX Runtime.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("inference: pool is closed")

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// SetLibraryPath points ONNX Runtime at a specific shared library. It must be
// called before the first session is created.
func SetLibraryPath(path string) {
	if path != "" {
		ort.SetSharedLibraryPath(path)
	}
}

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Output holds per-position label scores for one sequence.
type Output struct {
	Logits    []float32 // row-major [positions][labels]
	Positions int
	Labels    int
}

// Row returns the label scores of position i.
func (o Output) Row(i int) []float32 {
	return o.Logits[i*o.Labels : (i+1)*o.Labels]
}

// Session wraps an ONNX Runtime session for token classification.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file. The model must
// take input_ids and attention_mask and produce logits shaped
// [batch, sequence, labels].
func NewSession(modelPath string) (*Session, error) {
	// Check file exists
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	inputNames := []string{"input_ids", "attention_mask"}
	outputNames := []string{"logits"}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the model on one tokenized sequence.
func (s *Session) Infer(ctx context.Context, inputIDs, attentionMask []int64) (Output, error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return Output{}, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Output{}, fmt.Errorf("session is closed")
	}

	batchSize := int64(1)
	seqLen := int64(len(inputIDs))

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(batchSize, seqLen), inputIDs)
	if err != nil {
		return Output{}, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = inputIDsTensor.Destroy() }()

	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(batchSize, seqLen), attentionMask)
	if err != nil {
		return Output{}, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = attentionMaskTensor.Destroy() }()

	inputs := []ort.Value{inputIDsTensor, attentionMaskTensor}

	// nil entries are allocated by Run
	outputs := []ort.Value{nil}

	if err := s.session.Run(inputs, outputs); err != nil {
		return Output{}, fmt.Errorf("running inference: %w", err)
	}

	if outputs[0] == nil {
		return Output{}, fmt.Errorf("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return Output{}, fmt.Errorf("unexpected output tensor type")
	}

	shape := logitsTensor.GetShape()
	if len(shape) != 3 || shape[1] != seqLen {
		return Output{}, fmt.Errorf("unexpected logits shape %v for sequence length %d", shape, seqLen)
	}
	labels := int(shape[2])

	out := Output{
		Logits:    make([]float32, int(seqLen)*labels),
		Positions: int(seqLen),
		Labels:    labels,
	}
	copy(out.Logits, logitsTensor.GetData())

	return out, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}

// Argmax returns the index of the largest score, or -1 for an empty slice.
func Argmax(scores []float32) int {
	best := -1
	for i, v := range scores {
		if best < 0 || v > scores[best] {
			best = i
		}
	}
	return best
}
