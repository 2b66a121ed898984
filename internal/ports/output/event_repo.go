package output

import (
	"context"
	"time"

	"trainingevents/internal/domain/entities"
)

// EventRepository stores Event records. Find methods return
// domain.ErrEventNotFound when no row matches.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id int64) (*entities.Event, error)
	FindAll(ctx context.Context) ([]entities.Event, error)
	// FindStartingAfter returns events whose start time is strictly after t,
	// ordered by start time.
	FindStartingAfter(ctx context.Context, t time.Time) ([]entities.Event, error)
	// FindUpcoming returns non-private events of the given type starting
	// strictly after t, ordered by start time, at most limit rows.
	FindUpcoming(ctx context.Context, eventType entities.EventType, t time.Time, limit int) ([]entities.Event, error)
	// CountLessonPlanUsesBefore counts, per lesson plan, the events that
	// started strictly before t with that plan assigned.
	CountLessonPlanUsesBefore(ctx context.Context, t time.Time) (map[int64]int, error)
	Update(ctx context.Context, event *entities.Event) error
	SetLessonPlan(ctx context.Context, eventID, lessonPlanID int64) error
	Delete(ctx context.Context, id int64) error
}
