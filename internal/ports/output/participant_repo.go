package output

import (
	"context"

	"trainingevents/internal/domain/entities"
)

// ParticipantRepository stores one Participant per (event, user).
type ParticipantRepository interface {
	// Find returns domain.ErrParticipantNotFound when the pair never interacted.
	Find(ctx context.Context, eventID, userID int64) (*entities.Participant, error)
	FindByEventID(ctx context.Context, eventID int64) ([]entities.Participant, error)
	// Save inserts or replaces the record for (EventID, UserID).
	Save(ctx context.Context, participant *entities.Participant) error
}
