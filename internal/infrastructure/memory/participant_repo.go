package memory

import (
	"context"
	"sort"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

type ParticipantRepository struct {
	s *Store
}

func (r *ParticipantRepository) Find(_ context.Context, eventID, userID int64) (*entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.participants[pair{eventID, userID}]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	out := cloneParticipant(p)
	return &out, nil
}

func (r *ParticipantRepository) FindByEventID(_ context.Context, eventID int64) ([]entities.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entities.Participant{}
	for k, p := range r.s.participants {
		if k.eventID == eventID {
			out = append(out, cloneParticipant(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *ParticipantRepository) Save(_ context.Context, participant *entities.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[participant.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	k := pair{participant.EventID, participant.UserID}
	now := r.s.now()
	if existing, ok := r.s.participants[k]; ok {
		participant.CreatedAt = existing.CreatedAt
	} else {
		participant.CreatedAt = now
	}
	if participant.UpdatedAt.IsZero() {
		participant.UpdatedAt = now
	}
	r.s.participants[k] = cloneParticipant(*participant)
	return nil
}
