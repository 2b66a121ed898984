package input

import (
	"context"

	"trainingevents/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, actor *entities.Actor, event *entities.Event) error
	UpdateEvent(ctx context.Context, actor *entities.Actor, event *entities.Event) error
	DeleteEvent(ctx context.Context, actor *entities.Actor, id int64) error
	GetEvent(ctx context.Context, actor *entities.Actor, id int64) (*entities.EventDetails, error)
	ListEvents(ctx context.Context, actor *entities.Actor) ([]entities.Event, error)
	Upcoming(ctx context.Context, eventType entities.EventType, count int) ([]entities.Event, error)
	StartEvent(ctx context.Context, actor *entities.Actor, id int64) error
	CompleteEvent(ctx context.Context, actor *entities.Actor, id int64) error
	GetCheckinCode(ctx context.Context, actor *entities.Actor, id int64) (string, error)
	Summary(ctx context.Context, id int64) (*entities.EventSummary, error)
	SupportingInstructors(ctx context.Context, actor *entities.Actor, id int64) ([]int64, error)
}
