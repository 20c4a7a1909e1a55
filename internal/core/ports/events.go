package ports

import (
	"context"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// EventPublisher delivers application events to an external system.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ApplicationSubmitted) error
}

// EventDispatcher hands events to background workers. Enqueue must not block;
// it reports false when the event was dropped.
type EventDispatcher interface {
	Enqueue(event domain.ApplicationSubmitted) bool
}
