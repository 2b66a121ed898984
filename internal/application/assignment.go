package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/input"
	"trainingevents/internal/ports/output"
)

var _ input.AssignmentUseCase = (*AssignmentService)(nil)

var errNoCandidate = errors.New("no lesson plan candidate")

// AssignmentService assigns a lesson plan to every event that has not
// started yet: the most voted plan, or when nobody voted, the presentable plan
// used by the fewest earlier events. Ties go to the lowest lesson plan ID.
type AssignmentService struct {
	uow         output.UnitOfWork
	stores      output.Stores
	lessonPlans output.LessonPlanDirectory
	cache       output.EventCache
	announcer   output.Announcer
	now         clock
}

func NewAssignmentService(deps Dependencies) *AssignmentService {
	return &AssignmentService{
		uow:         deps.UnitOfWork,
		stores:      deps.Stores,
		lessonPlans: deps.LessonPlans,
		cache:       deps.Cache,
		announcer:   deps.Announcer,
		now:         time.Now,
	}
}

// Assign runs one assignment pass. A failing event is logged and reported;
// it never stops the pass. Only failing to list events aborts.
func (s *AssignmentService) Assign(ctx context.Context) (*input.AssignmentReport, error) {
	events, err := s.stores.Events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	// Earlier events first: the fallback counts plans used by events that
	// start before the current one, so those must be settled already.
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
	report := &input.AssignmentReport{
		Assigned: make(map[int64]int64),
		Failed:   make(map[int64]error),
	}
	presentable, presentableErr := s.lessonPlans.ListPresentableLessonPlans(ctx)
	if presentableErr != nil {
		log.Printf("⚠️ list presentable lesson plans: %v", presentableErr)
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if event.Started || event.Completed {
			report.Skipped = append(report.Skipped, event.ID)
			continue
		}
		planID, changed, err := s.assignEvent(ctx, event.ID, presentable, presentableErr)
		switch {
		case errors.Is(err, errNoCandidate):
			report.Skipped = append(report.Skipped, event.ID)
		case err != nil:
			log.Printf("❌ assign lesson plan (event %d): %v", event.ID, err)
			report.Failed[event.ID] = err
		default:
			report.Assigned[event.ID] = planID
			if changed {
				invalidateEvent(ctx, s.cache, event.ID)
				s.announce(ctx, event.ID, planID)
			}
		}
	}
	return report, nil
}

// assignEvent tallies and writes under the event's vote and event keys so
// that votes, edits and lifecycle transitions wait for the write.
func (s *AssignmentService) assignEvent(ctx context.Context, eventID int64, presentable []int64, presentableErr error) (planID int64, changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	keys := []string{output.VotesKey(eventID), output.EventKey(eventID)}
	err = s.uow.DoAll(ctx, keys, func(ctx context.Context, st output.Stores) error {
		event, err := st.Events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Started {
			return errNoCandidate
		}
		votes, err := st.Votes.FindByEventID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("load votes: %w", err)
		}
		winner, ok := MostVoted(Tally(votes))
		if !ok {
			if presentableErr != nil {
				return fmt.Errorf("list presentable lesson plans: %w", presentableErr)
			}
			uses, err := st.Events.CountLessonPlanUsesBefore(ctx, event.StartTime)
			if err != nil {
				return fmt.Errorf("count lesson plan uses: %w", err)
			}
			winner, ok = LeastPresented(presentable, uses)
			if !ok {
				return errNoCandidate
			}
		}
		planID = winner
		if event.LessonPlanID != nil && *event.LessonPlanID == winner {
			return nil
		}
		changed = true
		return st.Events.SetLessonPlan(ctx, eventID, winner)
	})
	return planID, changed, err
}

func (s *AssignmentService) announce(ctx context.Context, eventID, planID int64) {
	if s.announcer == nil {
		return
	}
	event, err := s.stores.Events.FindByID(ctx, eventID)
	if err != nil {
		log.Printf("⚠️ announce assignment (event %d): %v", eventID, err)
		return
	}
	plan, err := s.lessonPlans.GetLessonPlan(ctx, planID)
	if err != nil {
		log.Printf("⚠️ announce assignment (event %d): %v", eventID, err)
		return
	}
	if err := s.announcer.LessonPlanAssigned(ctx, *event, *plan); err != nil {
		log.Printf("⚠️ announce assignment (event %d): %v", eventID, err)
	}
}

// Tally counts votes per lesson plan.
func Tally(votes []entities.Vote) map[int64]int {
	tally := make(map[int64]int, len(votes))
	for _, v := range votes {
		tally[v.LessonPlanID]++
	}
	return tally
}

// MostVoted returns the plan with the highest count, the lowest ID among
// ties. ok is false when no plan has a vote.
func MostVoted(tally map[int64]int) (planID int64, ok bool) {
	best := 0
	for _, id := range sortedKeys(tally) {
		if tally[id] > best {
			best = tally[id]
			planID = id
			ok = true
		}
	}
	return planID, ok
}

// LeastPresented returns the presentable plan with the fewest prior uses,
// the lowest ID among ties. ok is false when presentable is empty.
func LeastPresented(presentable []int64, uses map[int64]int) (planID int64, ok bool) {
	ids := append([]int64(nil), presentable...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if !ok || uses[id] < uses[planID] {
			planID = id
			ok = true
		}
	}
	return planID, ok
}

func sortedKeys(m map[int64]int) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
