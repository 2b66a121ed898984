package entities

import "time"

// EventType is the category of a training event.
type EventType string

const (
	EventTypeGroundSchool   EventType = "GROUND_SCHOOL"
	EventTypeFlightTraining EventType = "FLIGHT_TRAINING"
	EventTypeSafetySeminar  EventType = "SAFETY_SEMINAR"
	EventTypeStudyGroup     EventType = "STUDY_GROUP"
	EventTypeOther          EventType = "OTHER"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeGroundSchool, EventTypeFlightTraining, EventTypeSafetySeminar, EventTypeStudyGroup, EventTypeOther:
		return true
	}
	return false
}

// CheckinCodeLength is the length of a generated check-in code.
const CheckinCodeLength = 4

type Event struct {
	ID                  int64
	Title               string
	StartTime           time.Time // zero = not set
	Started             bool
	Completed           bool
	CompletedTime       time.Time
	Private             bool
	Type                EventType
	LeadID              int64
	LessonPlanID        *int64
	CheckinCode         string // "" = none
	CheckinCodeRequired bool
	AddressID           *int64
	CalendarURL         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasLessonPlan reports whether a lesson plan has been assigned.
func (e *Event) HasLessonPlan() bool {
	return e.LessonPlanID != nil
}

// StartsWithin reports whether the event starts less than d after now.
// Events whose start time is already past also qualify.
func (e *Event) StartsWithin(now time.Time, d time.Duration) bool {
	return e.StartTime.Sub(now) < d
}

// EventDetails is the composed read view returned by get-event.
type EventDetails struct {
	Event        Event
	Participants []User
	Address      *Address
}

// EventSummary is the public summary of an event.
type EventSummary struct {
	ID               int64
	Title            string
	StartTime        time.Time
	Private          bool
	Lead             string
	ParticipantCount int
	Lessons          []string
	Address          *Address
}
