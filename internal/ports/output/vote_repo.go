package output

import (
	"context"

	"trainingevents/internal/domain/entities"
)

// VoteRepository stores one Vote per (event, user).
type VoteRepository interface {
	// Upsert creates the vote or overwrites the chosen lesson plan.
	Upsert(ctx context.Context, vote *entities.Vote) error
	Find(ctx context.Context, eventID, userID int64) (*entities.Vote, error)
	FindByEventID(ctx context.Context, eventID int64) ([]entities.Vote, error)
	// Delete removes the vote; it reports whether a vote existed.
	Delete(ctx context.Context, eventID, userID int64) (bool, error)
}
