package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("scores", func() (any, error) {
				executions.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			if err != nil || v != 42 {
				t.Errorf("unexpected result: v=%v err=%v", v, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
}

func TestSingleFlight_SequentialCallsRunSeparately(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	for i := 0; i < 3; i++ {
		if _, err, shared := g.Do("k", func() (any, error) {
			executions.Add(1)
			return nil, nil
		}); err != nil || shared {
			t.Fatalf("call %d: err=%v shared=%v", i, err, shared)
		}
	}

	if got := executions.Load(); got != 3 {
		t.Fatalf("fn executed %d times, want 3", got)
	}
}
