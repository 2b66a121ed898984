package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	q querier
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO events (title, start_time, started, completed, completed_time, private, type,
			lead_id, lesson_plan_id, checkin_code, checkin_code_required, address_id, calendar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		event.Title, event.StartTime, event.Started, event.Completed, timestamptz(event.CompletedTime),
		event.Private, string(event.Type), event.LeadID, ptrInt8(event.LessonPlanID), event.CheckinCode,
		event.CheckinCodeRequired, ptrInt8(event.AddressID), event.CalendarURL,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*entities.Event, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]entities.Event, error) {
	return r.list(ctx, "list events", `SELECT `+eventColumns+` FROM events ORDER BY id`)
}

func (r *EventRepository) FindStartingAfter(ctx context.Context, t time.Time) ([]entities.Event, error) {
	return r.list(ctx, "list future events",
		`SELECT `+eventColumns+` FROM events WHERE start_time > $1 ORDER BY start_time, id`, t)
}

func (r *EventRepository) FindUpcoming(ctx context.Context, eventType entities.EventType, t time.Time, limit int) ([]entities.Event, error) {
	return r.list(ctx, "list upcoming events", `
		SELECT `+eventColumns+` FROM events
		WHERE type = $1 AND start_time > $2 AND NOT private
		ORDER BY start_time, id
		LIMIT $3`, string(eventType), t, limit)
}

func (r *EventRepository) CountLessonPlanUsesBefore(ctx context.Context, t time.Time) (map[int64]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT lesson_plan_id, count(*) FROM events
		WHERE lesson_plan_id IS NOT NULL AND start_time < $1
		GROUP BY lesson_plan_id`, t)
	if err != nil {
		return nil, fmt.Errorf("count lesson plan uses: %w", err)
	}
	defer rows.Close()
	uses := make(map[int64]int)
	for rows.Next() {
		var planID, n int64
		if err := rows.Scan(&planID, &n); err != nil {
			return nil, fmt.Errorf("count lesson plan uses: %w", err)
		}
		uses[planID] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count lesson plan uses: %w", err)
	}
	return uses, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	err := r.q.QueryRow(ctx, `
		UPDATE events SET title = $2, start_time = $3, started = $4, completed = $5,
			completed_time = $6, private = $7, type = $8, lead_id = $9, lesson_plan_id = $10,
			checkin_code = $11, checkin_code_required = $12, address_id = $13, calendar_url = $14,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		event.ID, event.Title, event.StartTime, event.Started, event.Completed,
		timestamptz(event.CompletedTime), event.Private, string(event.Type), event.LeadID,
		ptrInt8(event.LessonPlanID), event.CheckinCode, event.CheckinCodeRequired,
		ptrInt8(event.AddressID), event.CalendarURL,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (r *EventRepository) SetLessonPlan(ctx context.Context, eventID, lessonPlanID int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE events SET lesson_plan_id = $2, updated_at = now() WHERE id = $1`, eventID, lessonPlanID)
	if err != nil {
		return fmt.Errorf("set lesson plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete removes the event; participants and votes go with it (ON DELETE CASCADE).
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (r *EventRepository) list(ctx context.Context, op, sql string, args ...any) ([]entities.Event, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}
