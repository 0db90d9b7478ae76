package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestSweepWorkerRunsUntilCancelled(t *testing.T) {
	s := &countingSweeper{}
	w := NewSweepWorker(map[string]Sweeper{"state": s}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSweepWorkerZeroIntervalReturns(t *testing.T) {
	s := &countingSweeper{}
	NewSweepWorker(map[string]Sweeper{"state": s}, 0).Start(context.Background())
	assert.Zero(t, s.calls.Load())
}
