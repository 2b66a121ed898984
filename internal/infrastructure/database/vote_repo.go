package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.VoteRepository = (*VoteRepository)(nil)

type VoteRepository struct {
	q querier
}

func (r *VoteRepository) Upsert(ctx context.Context, v *entities.Vote) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO votes (event_id, user_id, lesson_plan_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			lesson_plan_id = EXCLUDED.lesson_plan_id,
			updated_at = now()
		RETURNING created_at, updated_at`,
		v.EventID, v.UserID, v.LessonPlanID,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) Find(ctx context.Context, eventID, userID int64) (*entities.Vote, error) {
	v, err := scanVote(r.q.QueryRow(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE event_id = $1 AND user_id = $2`, eventID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vote: %w", err)
	}
	return &v, nil
}

func (r *VoteRepository) FindByEventID(ctx context.Context, eventID int64) ([]entities.Vote, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE event_id = $1 ORDER BY user_id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	votes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Vote, error) {
		return scanVote(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

func (r *VoteRepository) Delete(ctx context.Context, eventID, userID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM votes WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("delete vote: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
