package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher runs callbacks on a fixed set of workers using consistent
// hashing on the key, so callbacks posted under one key run in order.
type Dispatcher struct {
	workers []chan func()
	log     zerolog.Logger

	mu   sync.Mutex
	done <-chan struct{}
}

var _ ports.Scheduler = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan func(), numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan func(), channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// callbacks posted afterwards are dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.done = ctx.Done()
	d.mu.Unlock()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Post queues fn on the worker responsible for key. It blocks only while
// that worker's buffer is full.
func (d *Dispatcher) Post(key string, fn func()) {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	select {
	case d.workers[d.shardIndex(key)] <- fn:
	case <-done:
		d.log.Debug().Str("key", key).Msg("dispatcher stopped, callback dropped")
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn, ok := <-ch:
			if !ok {
				return
			}
			d.run(id, fn)
		}
	}
}

func (d *Dispatcher) run(id int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Int("worker_id", id).Msg("callback panicked")
		}
	}()
	fn()
}
