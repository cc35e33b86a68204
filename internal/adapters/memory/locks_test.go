package memory

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTryAcquireMutualExclusion(t *testing.T) {
	locks := NewUserLocks()

	token, ok := locks.TryAcquire(1)
	if !ok || token == nil {
		t.Fatal("first acquire should succeed")
	}

	if _, ok := locks.TryAcquire(1); ok {
		t.Error("second acquire for the same user should fail while held")
	}

	// A different user is unaffected.
	other, ok := locks.TryAcquire(2)
	if !ok {
		t.Error("acquire for a different user should succeed")
	}
	locks.Release(other)

	locks.Release(token)
	if _, ok := locks.TryAcquire(1); !ok {
		t.Error("acquire after release should succeed")
	}
}

func TestTryAcquireConcurrent(t *testing.T) {
	locks := NewUserLocks()

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := locks.TryAcquire(7); ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
}

func TestReleaseStaleToken(t *testing.T) {
	locks := NewUserLocks()

	first, _ := locks.TryAcquire(1)
	locks.Release(first)

	second, ok := locks.TryAcquire(1)
	if !ok {
		t.Fatal("reacquire should succeed")
	}

	// Releasing the stale first token must not free the second holder.
	locks.Release(first)
	if _, ok := locks.TryAcquire(1); ok {
		t.Error("stale release must not free the current holder")
	}

	locks.Release(second)
	locks.Release(nil) // no-op
}
