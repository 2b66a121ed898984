package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

type ParticipantRepository struct {
	q querier
}

func (r *ParticipantRepository) Find(ctx context.Context, eventID, userID int64) (*entities.Participant, error) {
	p, err := scanParticipant(r.q.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = $1 AND user_id = $2`, eventID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return &p, nil
}

func (r *ParticipantRepository) FindByEventID(ctx context.Context, eventID int64) ([]entities.Participant, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = $1 ORDER BY user_id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	participants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Participant, error) {
		return scanParticipant(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// Save upserts on (event_id, user_id). A missing event yields
// domain.ErrEventNotFound through the foreign key.
func (r *ParticipantRepository) Save(ctx context.Context, p *entities.Participant) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO participants (event_id, user_id, confirmed, declined, confirmation_time,
			checked_in, checkin_time, member)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			confirmed = EXCLUDED.confirmed,
			declined = EXCLUDED.declined,
			confirmation_time = EXCLUDED.confirmation_time,
			checked_in = EXCLUDED.checked_in,
			checkin_time = EXCLUDED.checkin_time,
			member = EXCLUDED.member,
			updated_at = now()
		RETURNING created_at, updated_at`,
		p.EventID, p.UserID, ptrBool(p.Confirmed), ptrBool(p.Declined), timestamptz(p.ConfirmationTime),
		ptrBool(p.CheckedIn), timestamptz(p.CheckinTime), ptrBool(p.Member),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("save participant: %w", err)
	}
	return nil
}
