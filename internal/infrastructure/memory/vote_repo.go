package memory

import (
	"context"
	"sort"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.VoteRepository = (*VoteRepository)(nil)

type VoteRepository struct {
	s *Store
}

func (r *VoteRepository) Upsert(_ context.Context, vote *entities.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[vote.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	k := pair{vote.EventID, vote.UserID}
	now := r.s.now()
	if existing, ok := r.s.votes[k]; ok {
		vote.CreatedAt = existing.CreatedAt
	} else {
		vote.CreatedAt = now
	}
	vote.UpdatedAt = now
	r.s.votes[k] = *vote
	return nil
}

func (r *VoteRepository) Find(_ context.Context, eventID, userID int64) (*entities.Vote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.votes[pair{eventID, userID}]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	return &v, nil
}

func (r *VoteRepository) FindByEventID(_ context.Context, eventID int64) ([]entities.Vote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entities.Vote{}
	for k, v := range r.s.votes {
		if k.eventID == eventID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *VoteRepository) Delete(_ context.Context, eventID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pair{eventID, userID}
	if _, ok := r.s.votes[k]; !ok {
		return false, nil
	}
	delete(r.s.votes, k)
	return true, nil
}
