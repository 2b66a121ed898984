package application

import (
	"context"
	"fmt"
	"time"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/access"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/input"
	"trainingevents/internal/ports/output"
)

var _ input.VoteUseCase = (*VoteService)(nil)

// VoteService records lesson plan votes. Writes share the event's vote key
// with the assignment engine and its event key with StartEvent, so no vote
// lands after the event started.
type VoteService struct {
	uow         output.UnitOfWork
	stores      output.Stores
	lessonPlans output.LessonPlanDirectory
	now         clock
}

func NewVoteService(deps Dependencies) *VoteService {
	return &VoteService{
		uow:         deps.UnitOfWork,
		stores:      deps.Stores,
		lessonPlans: deps.LessonPlans,
		now:         time.Now,
	}
}

// Vote casts or replaces userID's vote for the event.
func (s *VoteService) Vote(ctx context.Context, actor *entities.Actor, eventID, userID, lessonPlanID int64) error {
	if err := access.CheckSelfOr(actor, userID, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	exists, err := s.lessonPlans.ExistsLessonPlan(ctx, lessonPlanID)
	if err != nil {
		return fmt.Errorf("check lesson plan: %w", err)
	}
	if !exists {
		return domain.ErrLessonPlanNotFound
	}
	return s.uow.DoAll(ctx, voteKeys(eventID), func(ctx context.Context, st output.Stores) error {
		event, err := st.Events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Started {
			return domain.ErrVotingClosed
		}
		now := s.now()
		return st.Votes.Upsert(ctx, &entities.Vote{
			EventID:      eventID,
			UserID:       userID,
			LessonPlanID: lessonPlanID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
}

// WithdrawVote deletes userID's vote. Withdrawing a missing vote is a no-op.
func (s *VoteService) WithdrawVote(ctx context.Context, actor *entities.Actor, eventID, userID int64) error {
	if err := access.CheckSelfOr(actor, userID, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	return s.uow.DoAll(ctx, voteKeys(eventID), func(ctx context.Context, st output.Stores) error {
		event, err := st.Events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Started {
			return domain.ErrVotingClosed
		}
		_, err = st.Votes.Delete(ctx, eventID, userID)
		return err
	})
}

// Tally returns the current vote count per lesson plan.
func (s *VoteService) Tally(ctx context.Context, eventID int64) (map[int64]int, error) {
	if _, err := s.stores.Events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	votes, err := s.stores.Votes.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}
	return Tally(votes), nil
}

func voteKeys(eventID int64) []string {
	return []string{output.EventKey(eventID), output.VotesKey(eventID)}
}
