package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockRegistry_SerializesSameSession(t *testing.T) {
	registry := NewLockRegistry()

	var mu sync.Mutex
	var order []int

	release := registry.Acquire("session-a")

	done := make(chan struct{})
	go func() {
		r := registry.Acquire("session-a")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		r()
		close(done)
	}()

	// The goroutine must be blocked while we hold the lock
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed")
	}

	assert.Equal(t, []int{1, 2}, order)
}

func TestLockRegistry_DistinctSessionsDoNotBlock(t *testing.T) {
	registry := NewLockRegistry()

	releaseA := registry.Acquire("session-a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := registry.Acquire("session-b")
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire on a different session blocked")
	}
}

func TestLockRegistry_EntriesReclaimed(t *testing.T) {
	registry := NewLockRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := registry.Acquire("session-a")
			release()
		}()
	}
	wg.Wait()

	require.Equal(t, 0, registry.Len())
}

func TestLockRegistry_ReleaseIsIdempotent(t *testing.T) {
	registry := NewLockRegistry()

	release := registry.Acquire("session-a")
	release()
	assert.NotPanics(t, func() { release() })
	assert.Equal(t, 0, registry.Len())
}
