package memory

import (
	"context"
	"sort"
	"time"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(_ context.Context, event *entities.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextEventID++
	now := r.s.now()
	event.ID = r.s.nextEventID
	event.CreatedAt = now
	event.UpdatedAt = now
	r.s.events[event.ID] = cloneEvent(*event)
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id int64) (*entities.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := cloneEvent(e)
	return &out, nil
}

func (r *EventRepository) FindAll(_ context.Context) ([]entities.Event, error) {
	out := r.filter(func(entities.Event) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EventRepository) FindStartingAfter(_ context.Context, t time.Time) ([]entities.Event, error) {
	out := r.filter(func(e entities.Event) bool { return e.StartTime.After(t) })
	sortByStart(out)
	return out, nil
}

func (r *EventRepository) FindUpcoming(_ context.Context, eventType entities.EventType, t time.Time, limit int) ([]entities.Event, error) {
	out := r.filter(func(e entities.Event) bool {
		return e.StartTime.After(t) && !e.Private && e.Type == eventType
	})
	sortByStart(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *EventRepository) CountLessonPlanUsesBefore(_ context.Context, t time.Time) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	uses := make(map[int64]int)
	for _, e := range r.s.events {
		if e.LessonPlanID != nil && e.StartTime.Before(t) {
			uses[*e.LessonPlanID]++
		}
	}
	return uses, nil
}

func (r *EventRepository) Update(_ context.Context, event *entities.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.events[event.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = r.s.now()
	r.s.events[event.ID] = cloneEvent(*event)
	return nil
}

func (r *EventRepository) SetLessonPlan(_ context.Context, eventID, lessonPlanID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.LessonPlanID = &lessonPlanID
	e.UpdatedAt = r.s.now()
	r.s.events[eventID] = e
	return nil
}

// Delete removes the event with its participants and votes.
func (r *EventRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.events, id)
	for k := range r.s.participants {
		if k.eventID == id {
			delete(r.s.participants, k)
		}
	}
	for k := range r.s.votes {
		if k.eventID == id {
			delete(r.s.votes, k)
		}
	}
	return nil
}

func (r *EventRepository) filter(keep func(entities.Event) bool) []entities.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		if keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	return out
}

func sortByStart(events []entities.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].ID < events[j].ID
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
