package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

// ConflictWindow is the minimum distance between the start times of two
// future events.
const ConflictWindow = 30 * time.Minute

// ConflictValidator rejects malformed events and events scheduled too close
// to another future event. It only reads.
type ConflictValidator struct{}

// ValidatePayload checks the fields an event must carry.
func (ConflictValidator) ValidatePayload(candidate *entities.Event) error {
	if candidate == nil {
		return domain.ErrInvalidPayload
	}
	if candidate.StartTime.IsZero() {
		return domain.ErrMissingStartTime
	}
	if strings.TrimSpace(candidate.Title) == "" {
		return domain.ErrMissingTitle
	}
	if !candidate.Type.Valid() {
		return domain.ErrInvalidEventType
	}
	return nil
}

// Validate checks the payload, then fails with domain.ErrScheduleConflict
// when another event starting after now lies strictly within ConflictWindow
// of the candidate. The candidate's own stored record (same non-zero ID) is
// ignored.
func (v ConflictValidator) Validate(ctx context.Context, events output.EventRepository, candidate *entities.Event, now time.Time) error {
	if err := v.ValidatePayload(candidate); err != nil {
		return err
	}
	future, err := events.FindStartingAfter(ctx, now)
	if err != nil {
		return fmt.Errorf("load future events: %w", err)
	}
	prior := candidate.StartTime.Add(-ConflictWindow)
	after := candidate.StartTime.Add(ConflictWindow)
	for _, other := range future {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if other.StartTime.After(prior) && other.StartTime.Before(after) {
			return fmt.Errorf("%w (event %d at %s)", domain.ErrScheduleConflict, other.ID, other.StartTime.Format(time.RFC3339))
		}
	}
	return nil
}
