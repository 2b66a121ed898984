package input

import (
	"context"

	"trainingevents/internal/domain/entities"
)

type VoteUseCase interface {
	Vote(ctx context.Context, actor *entities.Actor, eventID, userID, lessonPlanID int64) error
	WithdrawVote(ctx context.Context, actor *entities.Actor, eventID, userID int64) error
	Tally(ctx context.Context, eventID int64) (map[int64]int, error)
}
