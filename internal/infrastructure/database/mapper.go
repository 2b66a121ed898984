package database

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"trainingevents/internal/domain/entities"
)

// timestamptz maps the zero time to NULL.
func timestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func ptrInt8(p *int64) pgtype.Int8 {
	if p == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *p, Valid: true}
}

func boolPtr(v pgtype.Bool) *bool {
	if !v.Valid {
		return nil
	}
	return entities.Bool(v.Bool)
}

func ptrBool(p *bool) pgtype.Bool {
	if p == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *p, Valid: true}
}

const eventColumns = `id, title, start_time, started, completed, completed_time, private, type,
	lead_id, lesson_plan_id, checkin_code, checkin_code_required, address_id, calendar_url,
	created_at, updated_at`

func scanEvent(row pgx.Row) (entities.Event, error) {
	var (
		e             entities.Event
		eventType     string
		completedTime pgtype.Timestamptz
		lessonPlanID  pgtype.Int8
		addressID     pgtype.Int8
	)
	err := row.Scan(&e.ID, &e.Title, &e.StartTime, &e.Started, &e.Completed, &completedTime,
		&e.Private, &eventType, &e.LeadID, &lessonPlanID, &e.CheckinCode, &e.CheckinCodeRequired,
		&addressID, &e.CalendarURL, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return entities.Event{}, err
	}
	e.Type = entities.EventType(eventType)
	e.CompletedTime = pgtypeTimestamptzToTime(completedTime)
	e.LessonPlanID = int8Ptr(lessonPlanID)
	e.AddressID = int8Ptr(addressID)
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Event, error) {
		return scanEvent(row)
	})
}

const participantColumns = `event_id, user_id, confirmed, declined, confirmation_time,
	checked_in, checkin_time, member, created_at, updated_at`

func scanParticipant(row pgx.Row) (entities.Participant, error) {
	var (
		p                           entities.Participant
		confirmed, declined         pgtype.Bool
		checkedIn, member           pgtype.Bool
		confirmationTime, checkinAt pgtype.Timestamptz
	)
	err := row.Scan(&p.EventID, &p.UserID, &confirmed, &declined, &confirmationTime,
		&checkedIn, &checkinAt, &member, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entities.Participant{}, err
	}
	p.Confirmed = boolPtr(confirmed)
	p.Declined = boolPtr(declined)
	p.ConfirmationTime = pgtypeTimestamptzToTime(confirmationTime)
	p.CheckedIn = boolPtr(checkedIn)
	p.CheckinTime = pgtypeTimestamptzToTime(checkinAt)
	p.Member = boolPtr(member)
	return p, nil
}

const voteColumns = `event_id, user_id, lesson_plan_id, created_at, updated_at`

func scanVote(row pgx.Row) (entities.Vote, error) {
	var v entities.Vote
	err := row.Scan(&v.EventID, &v.UserID, &v.LessonPlanID, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}
