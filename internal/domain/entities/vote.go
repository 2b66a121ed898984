package entities

import "time"

// Vote is a user's lesson plan choice for an event. One per (event, user).
type Vote struct {
	EventID      int64
	UserID       int64
	LessonPlanID int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
