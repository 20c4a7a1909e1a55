package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ApplicationSubmitted
	err    error
	block  chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, e domain.ApplicationSubmitted) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) snapshot() []domain.ApplicationSubmitted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ApplicationSubmitted(nil), p.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatcher_PublishesInOrderPerJob(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(4, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		ok := d.Enqueue(domain.ApplicationSubmitted{ID: fmt.Sprintf("e%02d", i), JobID: "job-1"})
		if !ok {
			t.Fatalf("enqueue %d dropped", i)
		}
	}
	waitFor(t, func() bool { return len(pub.snapshot()) == 20 })

	for i, e := range pub.snapshot() {
		if want := fmt.Sprintf("e%02d", i); e.ID != want {
			t.Fatalf("event %d out of order: got %s want %s", i, e.ID, want)
		}
	}

	cancel()
	d.Wait()
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{block: make(chan struct{})}
	d := NewDispatcher(1, pub, zerolog.Nop())

	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer; i++ {
		if !d.Enqueue(domain.ApplicationSubmitted{JobID: "j"}) {
			t.Fatalf("enqueue %d dropped before buffer was full", i)
		}
	}
	if d.Enqueue(domain.ApplicationSubmitted{JobID: "j"}) {
		t.Fatalf("expected drop once the buffer is full")
	}
}

func TestDispatcher_PublishErrorDoesNotStopWorker(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(1, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.ApplicationSubmitted{ID: "a", JobID: "j"})
	d.Enqueue(domain.ApplicationSubmitted{ID: "b", JobID: "j"})
	waitFor(t, func() bool { return len(pub.snapshot()) == 2 })
}

func TestDispatcher_ShutdownDrainsBufferedEvents(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(2, pub, zerolog.Nop())

	// Buffer before the workers run so every event is still queued at shutdown.
	for i := 0; i < 10; i++ {
		d.Enqueue(domain.ApplicationSubmitted{ID: fmt.Sprintf("e%d", i), JobID: fmt.Sprintf("job-%d", i)})
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	drainCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := d.Shutdown(drainCtx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := len(pub.snapshot()); got != 10 {
		t.Fatalf("expected 10 published events, got %d", got)
	}
	if d.Enqueue(domain.ApplicationSubmitted{ID: "late", JobID: "job-1"}) {
		t.Fatalf("enqueue after shutdown must be refused")
	}
}

func TestDispatcher_ShutdownDeadlineReportsPending(t *testing.T) {
	pub := &recordingPublisher{block: make(chan struct{})}
	d := NewDispatcher(1, pub, zerolog.Nop())
	for i := 0; i < 3; i++ {
		d.Enqueue(domain.ApplicationSubmitted{ID: fmt.Sprintf("e%d", i), JobID: "j"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	// The worker takes one event and blocks on the publisher.
	waitFor(t, func() bool { return d.Pending() == 2 })

	drainCtx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer stop()
	if err := d.Shutdown(drainCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if got := d.Pending(); got != 2 {
		t.Fatalf("expected 2 pending events, got %d", got)
	}

	cancel()
	d.Wait()
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, &recordingPublisher{}, zerolog.Nop())
	for _, id := range []string{"", "a", "65f1c0ffee"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("shard %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard for %q not stable", id)
		}
	}
}

func TestNewPublishing(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg, err := newPublishing(domain.ApplicationSubmitted{ID: "evt-1", JobID: "j1", SubmittedAt: at})
	if err != nil {
		t.Fatalf("newPublishing: %v", err)
	}
	if msg.MessageId != "evt-1" || msg.ContentType != "application/json" || !msg.Timestamp.Equal(at) {
		t.Fatalf("unexpected message: %+v", msg)
	}

	var decoded domain.ApplicationSubmitted
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.JobID != "j1" {
		t.Fatalf("unexpected body: %s", msg.Body)
	}
}
