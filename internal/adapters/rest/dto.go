package rest

import (
	"time"

	"trainingevents/internal/domain/entities"
)

type eventRequest struct {
	Title               string             `json:"title"`
	StartTime           time.Time          `json:"startTime"`
	Private             bool               `json:"private"`
	Type                entities.EventType `json:"type"`
	LeadID              int64              `json:"leadId"`
	LessonPlanID        *int64             `json:"lessonPlanId"`
	CheckinCodeRequired bool               `json:"checkinCodeRequired"`
	AddressID           *int64             `json:"addressId"`
	CalendarURL         string             `json:"calendarUrl"`
}

func (r eventRequest) toEntity(id int64) *entities.Event {
	return &entities.Event{
		ID:                  id,
		Title:               r.Title,
		StartTime:           r.StartTime,
		Private:             r.Private,
		Type:                r.Type,
		LeadID:              r.LeadID,
		LessonPlanID:        r.LessonPlanID,
		CheckinCodeRequired: r.CheckinCodeRequired,
		AddressID:           r.AddressID,
		CalendarURL:         r.CalendarURL,
	}
}

// eventResponse never carries the check-in code; it has its own endpoint.
type eventResponse struct {
	ID                  int64              `json:"id"`
	Title               string             `json:"title"`
	StartTime           time.Time          `json:"startTime"`
	Started             bool               `json:"started"`
	Completed           bool               `json:"completed"`
	CompletedTime       *time.Time         `json:"completedTime,omitempty"`
	Private             bool               `json:"private"`
	Type                entities.EventType `json:"type"`
	LeadID              int64              `json:"leadId"`
	LessonPlanID        *int64             `json:"lessonPlanId"`
	CheckinCodeRequired bool               `json:"checkinCodeRequired"`
	AddressID           *int64             `json:"addressId"`
	CalendarURL         string             `json:"calendarUrl,omitempty"`
}

func toEventResponse(e entities.Event) eventResponse {
	resp := eventResponse{
		ID:                  e.ID,
		Title:               e.Title,
		StartTime:           e.StartTime,
		Started:             e.Started,
		Completed:           e.Completed,
		Private:             e.Private,
		Type:                e.Type,
		LeadID:              e.LeadID,
		LessonPlanID:        e.LessonPlanID,
		CheckinCodeRequired: e.CheckinCodeRequired,
		AddressID:           e.AddressID,
		CalendarURL:         e.CalendarURL,
	}
	if !e.CompletedTime.IsZero() {
		t := e.CompletedTime
		resp.CompletedTime = &t
	}
	return resp
}

func toEventResponses(events []entities.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

type eventDetailsResponse struct {
	eventResponse
	Participants []entities.User   `json:"participants"`
	Address      *entities.Address `json:"address,omitempty"`
}

func toEventDetailsResponse(d *entities.EventDetails) eventDetailsResponse {
	participants := d.Participants
	if participants == nil {
		participants = []entities.User{}
	}
	return eventDetailsResponse{
		eventResponse: toEventResponse(d.Event),
		Participants:  participants,
		Address:       d.Address,
	}
}

type summaryResponse struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	StartTime        time.Time         `json:"startTime"`
	Private          bool              `json:"private"`
	Lead             string            `json:"lead"`
	ParticipantCount int               `json:"participantCount"`
	Lessons          []string          `json:"lessons"`
	Address          *entities.Address `json:"address,omitempty"`
}

func toSummaryResponse(s *entities.EventSummary) summaryResponse {
	return summaryResponse{
		ID:               s.ID,
		Title:            s.Title,
		StartTime:        s.StartTime,
		Private:          s.Private,
		Lead:             s.Lead,
		ParticipantCount: s.ParticipantCount,
		Lessons:          s.Lessons,
		Address:          s.Address,
	}
}

type voteRequest struct {
	LessonPlanID int64 `json:"lessonPlanId" binding:"required"`
}

type membershipRequest struct {
	Member *bool `json:"member" binding:"required"`
}

type assignmentResponse struct {
	Assigned map[int64]int64  `json:"assigned"`
	Skipped  []int64          `json:"skipped"`
	Failed   map[int64]string `json:"failed"`
}
