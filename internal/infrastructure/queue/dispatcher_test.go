package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDispatcher_PreservesOrderPerKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := NewDispatcher(3, zerolog.Nop())
	d.Start(ctx)

	var (
		mu  sync.Mutex
		got = map[string][]int{}
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		for _, key := range []string{"orders", "login", "reports"} {
			wg.Add(1)
			d.Post(key, func() {
				defer wg.Done()
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
			})
		}
	}
	wg.Wait()

	for key, seq := range got {
		for i, v := range seq {
			if v != i {
				t.Fatalf("key %s out of order at %d: %v", key, i, seq)
			}
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("products") != d.shardIndex("products") {
		t.Error("shard index must be deterministic")
	}
}

func TestDispatcher_SurvivesPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx)

	done := make(chan struct{})
	d.Post("k", func() { panic("boom") })
	d.Post("k", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after panic")
	}
}
