package inference

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// openTestPool skips the test if the model or the runtime is unavailable.
func openTestPool(t *testing.T, size int) *Pool {
	t.Helper()
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: model not available at %s", testModelPath)
	}

	pool, err := NewPool(testModelPath, size)
	if err != nil {
		if isORTUnavailableError(err) {
			t.Skipf("Skipping: ONNX runtime not available: %v", err)
		}
		t.Fatalf("NewPool failed: %v", err)
	}
	return pool
}

func TestNewPool_ModelNotFound(t *testing.T) {
	_, err := NewPool("../testdata/nonexistent.onnx", 2)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestNewPool_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		pool := openTestPool(t, size)
		if pool.Size() != 1 {
			t.Errorf("NewPool(%d).Size() = %d, want 1", size, pool.Size())
		}
		_ = pool.Close()
	}
}

func TestPool_AcquireRelease(t *testing.T) {
	pool := openTestPool(t, 1)
	defer func() { _ = pool.Close() }()

	ctx := context.Background()
	s1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	// Second acquire should block
	ctx2, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx2); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	pool.Release(s1)
	pool.Release(nil)

	s2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	pool.Release(s2)
}

func TestPool_Infer(t *testing.T) {
	pool := openTestPool(t, 1)
	defer func() { _ = pool.Close() }()

	out, err := pool.Infer(context.Background(), []int64{101, 2000, 102}, []int64{1, 1, 1})
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if out.Positions != 3 {
		t.Errorf("Positions = %d, want 3", out.Positions)
	}
}

func TestPool_Close_Idempotent(t *testing.T) {
	pool := openTestPool(t, 2)

	if err := pool.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_ReleaseAfterClose(t *testing.T) {
	pool := openTestPool(t, 1)

	s, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	pool.Release(s)

	if pool.ModelPath() != testModelPath {
		t.Errorf("ModelPath() = %q, want %q", pool.ModelPath(), testModelPath)
	}
}
