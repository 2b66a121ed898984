package output

import (
	"context"

	"trainingevents/internal/domain/entities"
)

// Announcer publishes best-effort notices about events. Delivery is not
// guaranteed; callers log and ignore errors.
type Announcer interface {
	EventStarted(ctx context.Context, event entities.Event) error
	LessonPlanAssigned(ctx context.Context, event entities.Event, plan entities.LessonPlan) error
}
