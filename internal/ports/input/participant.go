package input

import (
	"context"

	"trainingevents/internal/domain/entities"
)

type ParticipantUseCase interface {
	Register(ctx context.Context, actor *entities.Actor, eventID, userID int64) error
	Unregister(ctx context.Context, actor *entities.Actor, eventID, userID int64) error
	RSVP(ctx context.Context, actor *entities.Actor, eventID, userID int64, confirm bool) error
	Checkin(ctx context.Context, actor *entities.Actor, eventID, userID int64, code string) (bool, error)
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	DidCheckIn(ctx context.Context, eventID, userID int64) (bool, error)
	DidRSVP(ctx context.Context, eventID, userID int64) (bool, error)
	GetMembership(ctx context.Context, actor *entities.Actor, eventID, userID int64) (bool, error)
	SetMembership(ctx context.Context, actor *entities.Actor, eventID, userID int64, member bool) error
	ListCheckedIn(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error)
	ListRSVPed(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error)
	ListParticipants(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error)
}
