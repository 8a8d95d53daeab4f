package queue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/finance-tracker/internal/api/metrics"
	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Sink receives activity events from dispatcher workers.
type Sink interface {
	Publish(ctx context.Context, event domain.ActivityEvent) error
}

// Dispatcher fans activity events out to a fixed set of workers sharded by
// user id, so each user's events reach the sink in the order they happened.
// It implements ports.ActivityRecorder.
type Dispatcher struct {
	workers []chan domain.ActivityEvent
	sink    Sink
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after Close, once their channel is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues event without blocking. A full worker channel drops the
// event: the write that produced it has already succeeded.
func (d *Dispatcher) Record(event domain.ActivityEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.ActivityDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(event.UserID)
	ch := d.workers[idx]
	select {
	case ch <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(ch)))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("kind", string(event.Kind)).
			Int64("user_id", event.UserID).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// Close stops accepting events and waits for workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	return int(uint64(userID) % uint64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	defer d.wg.Done()
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.publish(ctx, id, event)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, workerID int, event domain.ActivityEvent) {
	start := time.Now()
	err := d.sink.Publish(ctx, event)
	metrics.ActivityPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ActivityPublishedTotal.WithLabelValues(string(event.Kind), "error").Inc()
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Int64("user_id", event.UserID).
			Int("worker_id", workerID).
			Msg("activity publish failed")
		return
	}
	metrics.ActivityPublishedTotal.WithLabelValues(string(event.Kind), "ok").Inc()
}
