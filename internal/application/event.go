package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/access"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/input"
	"trainingevents/internal/ports/output"
)

// MaxUpcomingCount caps the number of events returned by Upcoming.
const MaxUpcomingCount = 10

var _ input.EventUseCase = (*EventService)(nil)

// EventService orchestrates the event lifecycle: scheduling through the
// conflict validator, start and completion, and composed read views.
type EventService struct {
	uow         output.UnitOfWork
	stores      output.Stores
	users       output.UserDirectory
	lessonPlans output.LessonPlanDirectory
	addresses   output.AddressDirectory
	cache       output.EventCache
	announcer   output.Announcer
	validator   ConflictValidator
	now         clock
	newCode     func() (string, error)
}

func NewEventService(deps Dependencies) *EventService {
	return &EventService{
		uow:         deps.UnitOfWork,
		stores:      deps.Stores,
		users:       deps.Users,
		lessonPlans: deps.LessonPlans,
		addresses:   deps.Addresses,
		cache:       deps.Cache,
		announcer:   deps.Announcer,
		now:         time.Now,
		newCode:     GenerateCheckinCode,
	}
}

// CreateEvent validates and stores a new event. The lead defaults to the
// actor. Lifecycle fields are reset.
func (s *EventService) CreateEvent(ctx context.Context, actor *entities.Actor, event *entities.Event) error {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	if event == nil {
		return domain.ErrInvalidPayload
	}
	event.ID = 0
	event.Started = false
	event.Completed = false
	event.CompletedTime = time.Time{}
	event.CheckinCode = ""
	if event.LeadID == 0 {
		event.LeadID = actor.UserID
	}
	err := s.uow.Do(ctx, output.ScheduleKey, func(ctx context.Context, st output.Stores) error {
		if err := s.validator.Validate(ctx, st.Events, event, s.now()); err != nil {
			return err
		}
		return st.Events.Create(ctx, event)
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, event.ID)
	return nil
}

// UpdateEvent replaces the editable fields of an existing event. The
// schedule is checked again when the start time moves. It holds the event
// key as well, so lifecycle transitions and assignment never interleave
// with the read-modify-write.
func (s *EventService) UpdateEvent(ctx context.Context, actor *entities.Actor, event *entities.Event) error {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	if err := s.validator.ValidatePayload(event); err != nil {
		return err
	}
	keys := []string{output.ScheduleKey, output.EventKey(event.ID)}
	err := s.uow.DoAll(ctx, keys, func(ctx context.Context, st output.Stores) error {
		existing, err := st.Events.FindByID(ctx, event.ID)
		if err != nil {
			return err
		}
		if !existing.StartTime.Equal(event.StartTime) {
			if err := s.validator.Validate(ctx, st.Events, event, s.now()); err != nil {
				return err
			}
		}
		existing.Title = event.Title
		existing.StartTime = event.StartTime
		existing.Private = event.Private
		existing.Type = event.Type
		if event.LeadID != 0 {
			existing.LeadID = event.LeadID
		}
		if event.LessonPlanID != nil {
			existing.LessonPlanID = event.LessonPlanID
		}
		existing.AddressID = event.AddressID
		existing.CheckinCodeRequired = event.CheckinCodeRequired
		existing.CalendarURL = event.CalendarURL
		if err := st.Events.Update(ctx, existing); err != nil {
			return err
		}
		*event = *existing
		return nil
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, event.ID)
	return nil
}

func (s *EventService) DeleteEvent(ctx context.Context, actor *entities.Actor, id int64) error {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	err := s.uow.Do(ctx, output.EventKey(id), func(ctx context.Context, st output.Stores) error {
		if _, err := st.Events.FindByID(ctx, id); err != nil {
			return err
		}
		return st.Events.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, id)
	return nil
}

// GetEvent returns the event with its live participants and address.
func (s *EventService) GetEvent(ctx context.Context, actor *entities.Actor, id int64) (*entities.EventDetails, error) {
	if err := access.Check(actor, access.AnyAuthenticated).Err(); err != nil {
		return nil, err
	}
	if s.cache != nil {
		cached, ok, err := s.cache.GetEvent(ctx, id)
		if err != nil {
			log.Printf("⚠️ cache get event %d: %v", id, err)
		} else if ok {
			return cached, nil
		}
	}
	event, err := s.stores.Events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &entities.EventDetails{Event: *event}
	ids, err := s.liveParticipantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, userID := range ids {
		u, err := s.users.GetUser(ctx, userID)
		if errors.Is(err, domain.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get user %d: %w", userID, err)
		}
		details.Participants = append(details.Participants, *u)
	}
	if details.Address, err = s.address(ctx, event); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.PutEvent(ctx, details); err != nil {
			log.Printf("⚠️ cache put event %d: %v", id, err)
		}
	}
	return details, nil
}

func (s *EventService) ListEvents(ctx context.Context, actor *entities.Actor) ([]entities.Event, error) {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return nil, err
	}
	return s.stores.Events.FindAll(ctx)
}

// Upcoming returns future public events of eventType, earliest first, at
// most MaxUpcomingCount of them.
func (s *EventService) Upcoming(ctx context.Context, eventType entities.EventType, count int) ([]entities.Event, error) {
	if !eventType.Valid() {
		return nil, domain.ErrInvalidEventType
	}
	if count <= 0 || count > MaxUpcomingCount {
		count = MaxUpcomingCount
	}
	now := s.now()
	if s.cache != nil {
		cached, ok, err := s.cache.GetUpcoming(ctx, eventType, count)
		if err != nil {
			log.Printf("⚠️ cache get upcoming %s/%d: %v", eventType, count, err)
		} else if ok && allAfter(cached, now) {
			return cached, nil
		}
	}
	events, err := s.stores.Events.FindUpcoming(ctx, eventType, now, count)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.PutUpcoming(ctx, eventType, count, events); err != nil {
			log.Printf("⚠️ cache put upcoming %s/%d: %v", eventType, count, err)
		}
	}
	return events, nil
}

// StartEvent marks the event started now. Starting a started event changes
// nothing.
func (s *EventService) StartEvent(ctx context.Context, actor *entities.Actor, id int64) error {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	var started *entities.Event
	err := s.uow.Do(ctx, output.EventKey(id), func(ctx context.Context, st output.Stores) error {
		event, err := st.Events.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if event.Started {
			return nil
		}
		if err := s.start(event); err != nil {
			return err
		}
		if err := st.Events.Update(ctx, event); err != nil {
			return err
		}
		started = event
		return nil
	})
	if err != nil || started == nil {
		return err
	}
	invalidateEvent(ctx, s.cache, id)
	if s.announcer != nil {
		if err := s.announcer.EventStarted(ctx, *started); err != nil {
			log.Printf("⚠️ announce start (event %d): %v", id, err)
		}
	}
	return nil
}

// CompleteEvent starts the event when needed, then marks it completed and
// clears its check-in code. Completing a completed event changes nothing.
func (s *EventService) CompleteEvent(ctx context.Context, actor *entities.Actor, id int64) error {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	err := s.uow.Do(ctx, output.EventKey(id), func(ctx context.Context, st output.Stores) error {
		event, err := st.Events.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if event.Completed {
			return nil
		}
		if !event.Started {
			event.Started = true
			event.StartTime = s.now()
		}
		event.Completed = true
		event.CompletedTime = s.now()
		event.CheckinCode = ""
		return st.Events.Update(ctx, event)
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, id)
	return nil
}

// GetCheckinCode returns the event's current check-in code, "" when none.
func (s *EventService) GetCheckinCode(ctx context.Context, actor *entities.Actor, id int64) (string, error) {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return "", err
	}
	event, err := s.stores.Events.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return event.CheckinCode, nil
}

// Summary composes the public summary of an event.
func (s *EventService) Summary(ctx context.Context, id int64) (*entities.EventSummary, error) {
	event, err := s.stores.Events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := &entities.EventSummary{
		ID:        event.ID,
		Title:     event.Title,
		StartTime: event.StartTime,
		Private:   event.Private,
		Lessons:   []string{},
	}
	lead, err := s.users.GetUser(ctx, event.LeadID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
	case err != nil:
		return nil, fmt.Errorf("get lead: %w", err)
	default:
		summary.Lead = lead.DisplayName
	}
	ids, err := s.liveParticipantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	summary.ParticipantCount = len(ids)
	if event.LessonPlanID != nil {
		plan, err := s.lessonPlans.GetLessonPlan(ctx, *event.LessonPlanID)
		switch {
		case errors.Is(err, domain.ErrLessonPlanNotFound):
		case err != nil:
			return nil, fmt.Errorf("get lesson plan: %w", err)
		default:
			summary.Lessons = plan.LessonTitles()
		}
	}
	if summary.Address, err = s.address(ctx, event); err != nil {
		return nil, err
	}
	return summary, nil
}

// SupportingInstructors returns the registered instructors other than the
// lead, ascending by user ID.
func (s *EventService) SupportingInstructors(ctx context.Context, actor *entities.Actor, id int64) ([]int64, error) {
	if err := access.Check(actor, access.AnyAuthenticated).Err(); err != nil {
		return nil, err
	}
	event, err := s.stores.Events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := s.liveParticipantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	instructors := []int64{}
	for _, userID := range ids {
		if userID == event.LeadID {
			continue
		}
		u, err := s.users.GetUser(ctx, userID)
		if errors.Is(err, domain.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get user %d: %w", userID, err)
		}
		if u.Role == entities.RoleInstructor {
			instructors = append(instructors, userID)
		}
	}
	return instructors, nil
}

func (s *EventService) start(event *entities.Event) error {
	event.Started = true
	event.StartTime = s.now()
	if event.CheckinCodeRequired {
		code, err := s.newCode()
		if err != nil {
			return err
		}
		event.CheckinCode = code
	}
	return nil
}

// allAfter reports whether every event still starts after now. A cached
// list holding an event that has since begun is stale.
func allAfter(events []entities.Event, now time.Time) bool {
	for i := range events {
		if !events[i].StartTime.After(now) {
			return false
		}
	}
	return true
}

// liveParticipantIDs returns the distinct non-declined user IDs, ascending.
func (s *EventService) liveParticipantIDs(ctx context.Context, eventID int64) ([]int64, error) {
	participants, err := s.stores.Participants.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	seen := make(map[int64]bool, len(participants))
	ids := make([]int64, 0, len(participants))
	for i := range participants {
		p := &participants[i]
		if !p.IsLive() || seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		ids = append(ids, p.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *EventService) address(ctx context.Context, event *entities.Event) (*entities.Address, error) {
	if event.AddressID == nil || s.addresses == nil {
		return nil, nil
	}
	addr, err := s.addresses.GetAddress(ctx, *event.AddressID)
	if errors.Is(err, domain.ErrAddressNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return addr, nil
}
