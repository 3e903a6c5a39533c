package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testJob struct {
	id      int
	fail    bool
	delay   time.Duration
	started *atomic.Int32
}

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

func (j *testJob) Execute(ctx context.Context) Result {
	if j.started != nil {
		j.started.Add(1)
	}
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return &testResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.fail {
		return &testResult{id: j.id, err: errors.New("job failed")}
	}
	return &testResult{id: j.id}
}

func TestPool_AllJobsComplete(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.Submit(&testJob{id: i})
	}

	results := pool.Wait()
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}

	seen := map[int]bool{}
	for _, r := range results {
		res := r.(*testResult)
		if res.err != nil {
			t.Errorf("job %d failed: %v", res.id, res.err)
		}
		seen[res.id] = true
	}
	if len(seen) != 10 {
		t.Errorf("expected 10 distinct jobs, got %d", len(seen))
	}
}

func TestPool_ErrorsAreCarried(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&testJob{id: 0})
	pool.Submit(&testJob{id: 1, fail: true})

	failed := 0
	for _, r := range pool.Wait() {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestPool_NonPositiveWorkerCount(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	pool.Submit(&testJob{id: 0})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestPool_WaitWithoutJobs(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	if results := pool.Wait(); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestPool_ShutdownCancelsRunningJobs(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var started atomic.Int32
	for i := 0; i < 2; i++ {
		pool.Submit(&testJob{id: i, delay: 5 * time.Second, started: &started})
	}

	// Let workers pick the jobs up before cancelling.
	deadline := time.Now().Add(time.Second)
	for started.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not cancel running jobs")
	}
}

func TestPool_SubmitAfterShutdownIsDropped(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Shutdown()

	// Must not block or panic.
	pool.Submit(&testJob{id: 0})
}
