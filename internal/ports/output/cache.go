package output

import (
	"context"

	"trainingevents/internal/domain/entities"
)

// EventCache caches read views. A miss is (nil, false, nil).
type EventCache interface {
	GetEvent(ctx context.Context, id int64) (*entities.EventDetails, bool, error)
	PutEvent(ctx context.Context, details *entities.EventDetails) error
	GetUpcoming(ctx context.Context, eventType entities.EventType, count int) ([]entities.Event, bool, error)
	PutUpcoming(ctx context.Context, eventType entities.EventType, count int, events []entities.Event) error
	// Invalidate drops the entry for eventID and every upcoming list.
	Invalidate(ctx context.Context, eventID int64) error
}
