package workerpool_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/e2esuite/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := pool.Submit(context.Background(), func(context.Context) error {
			defer wg.Done()
			count.Add(1)
			return nil
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_TrySubmitFull(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	ctx := context.Background()

	_ = pool.Submit(ctx, func(context.Context) error {
		close(started)
		<-blocker
		return nil
	})
	<-started

	noop := func(context.Context) error { return nil }
	_ = pool.TrySubmit(ctx, noop)
	_ = pool.TrySubmit(ctx, noop)

	if err := pool.TrySubmit(ctx, noop); !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}
	close(blocker)
}

func TestPool_SubmitHonoursContext(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	defer close(blocker)
	block := func(context.Context) error { <-blocker; return nil }

	for i := 0; i < 3; i++ {
		_ = pool.Submit(context.Background(), block)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pool.Submit(ctx, block); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	err := pool.Submit(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
}

func TestRun_CollectsErrorsInOrder(t *testing.T) {
	boom := errors.New("boom")
	var running, peak atomic.Int64

	tasks := make([]workerpool.Task, 6)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			if i%2 == 1 {
				return boom
			}
			return nil
		}
	}

	errs := workerpool.Run(context.Background(), 2, tasks)

	for i, err := range errs {
		if want := i%2 == 1; errors.Is(err, boom) != want {
			t.Errorf("task %d: unexpected error %v", i, err)
		}
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", p)
	}
}

func TestRun_PanicBecomesError(t *testing.T) {
	errs := workerpool.Run(context.Background(), 1, []workerpool.Task{
		func(context.Context) error { panic("kaboom") },
		func(context.Context) error { return nil },
	})

	if errs[0] == nil || !strings.Contains(errs[0].Error(), "kaboom") {
		t.Errorf("expected panic error, got %v", errs[0])
	}
	if errs[1] != nil {
		t.Errorf("worker should survive a panic, got %v", errs[1])
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	errs := workerpool.Run(ctx, 1, []workerpool.Task{
		func(context.Context) error { ran.Store(true); return nil },
	})

	if ran.Load() {
		t.Error("task ran after cancellation")
	}
	if !errors.Is(errs[0], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", errs[0])
	}
}
