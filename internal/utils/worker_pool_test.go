package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWorkerPool_ExecutesAllJobs tests that every submitted job runs before
// Shutdown returns.
func TestWorkerPool_ExecutesAllJobs(t *testing.T) {
	pool := NewWorkerPool(3, 10)

	var executed atomic.Int32
	for i := 0; i < 25; i++ {
		pool.Submit(func() {
			executed.Add(1)
		})
	}

	pool.Shutdown()
	assert.Equal(t, int32(25), executed.Load())
}

// TestWorkerPool_SanitizesSizes tests the lower bounds on workers and queue
// capacity.
func TestWorkerPool_SanitizesSizes(t *testing.T) {
	pool := NewWorkerPool(0, -1)

	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	<-done

	pool.Shutdown()
}
