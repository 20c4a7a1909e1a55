package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
	"github.com/jobbee/jobboard-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	publishTimeout = 5 * time.Second
)

// Dispatcher routes application events to a fixed set of workers using
// consistent hashing on the job ID, so events for one job are published in
// the order they were submitted.
type Dispatcher struct {
	workers   []chan domain.ApplicationSubmitted
	publisher ports.EventPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.ApplicationSubmitted, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ApplicationSubmitted, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown stops accepting events and lets the workers publish what is
// already buffered. If ctx ends first, the events still queued are counted,
// logged as discarded and ctx.Err() is returned; the caller then cancels the
// workers' context.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		pending := d.Pending()
		metrics.EventsPublishedTotal.WithLabelValues("discarded").Add(float64(pending))
		d.log.Warn().Int("pending", pending).Msg("shutdown deadline reached, discarding buffered events")
		return ctx.Err()
	}
}

// Pending returns the number of events buffered across all workers.
func (d *Dispatcher) Pending() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

// Enqueue hands the event to the worker responsible for its job. It never
// blocks: when that worker's buffer is full, or after Shutdown, the event is
// dropped and false is returned.
func (d *Dispatcher) Enqueue(event domain.ApplicationSubmitted) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.shardIndex(event.JobID)
	if d.closed {
		metrics.EventsPublishedTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("event_id", event.ID).Str("job_id", event.JobID).Msg("dispatcher shut down, dropping event")
		return false
	}
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.EventsPublishedTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("event_id", event.ID).
			Str("job_id", event.JobID).
			Int("worker_id", idx).
			Msg("event queue full, dropping event")
		return false
	}
}

// shardIndex maps a job ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(jobID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jobID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ApplicationSubmitted) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))

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

func (d *Dispatcher) publish(ctx context.Context, id int, event domain.ApplicationSubmitted) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("job_id", event.JobID).
			Int("worker_id", id).
			Msg("event publish failed")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
}
