package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

func createTestEvent(t *testing.T, s *Store, start time.Time) *entities.Event {
	t.Helper()
	e := &entities.Event{Title: "Weather briefing", StartTime: start, Type: entities.EventTypeGroundSchool, LeadID: 1}
	require.NoError(t, s.Stores().Events.Create(context.Background(), e))
	return e
}

func TestDo_SerializesSameKey(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Do(ctx, "participant:1:2", func(ctx context.Context, _ output.Stores) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.Empty(t, s.locks.slots, "released keys should be forgotten")
}

func TestDoAll_OverlappingKeysInAnyOrder(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		keys := []string{"schedule", "event:1"}
		if i%2 == 1 {
			keys = []string{"event:1", "votes:1", "schedule"}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.DoAll(ctx, keys, func(context.Context, output.Stores) error {
				time.Sleep(time.Millisecond)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Empty(t, s.locks.slots)
}

func TestDoAll_ReleasesTakenKeysWhenCancelled(t *testing.T) {
	s := NewStore()
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Do(context.Background(), "schedule", func(context.Context, output.Stores) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.DoAll(ctx, []string{"schedule", "event:1"}, func(context.Context, output.Stores) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, s.Do(context.Background(), "event:1", func(context.Context, output.Stores) error { return nil }))
	close(release)
}

func TestDo_ContextCancelledWhileWaiting(t *testing.T) {
	s := NewStore()
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Do(context.Background(), "k", func(context.Context, output.Stores) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Do(ctx, "k", func(context.Context, output.Stores) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestEventRepository_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	e := createTestEvent(t, s, time.Now().Add(time.Hour))
	plan := int64(3)
	require.NoError(t, s.Stores().Events.SetLessonPlan(ctx, e.ID, plan))

	got, err := s.Stores().Events.FindByID(ctx, e.ID)
	require.NoError(t, err)
	*got.LessonPlanID = 99
	got.Title = "changed"

	again, err := s.Stores().Events.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *again.LessonPlanID)
	assert.Equal(t, "Weather briefing", again.Title)
}

func TestEventRepository_Queries(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := s.Stores().Events

	past := createTestEvent(t, s, now.Add(-48*time.Hour))
	later := createTestEvent(t, s, now.Add(3*time.Hour))
	sooner := createTestEvent(t, s, now.Add(time.Hour))
	private := &entities.Event{Title: "Checkride prep", StartTime: now.Add(2 * time.Hour), Type: entities.EventTypeGroundSchool, Private: true}
	require.NoError(t, repo.Create(ctx, private))
	other := &entities.Event{Title: "Pattern work", StartTime: now.Add(2 * time.Hour), Type: entities.EventTypeFlightTraining}
	require.NoError(t, repo.Create(ctx, other))

	future, err := repo.FindStartingAfter(ctx, now)
	require.NoError(t, err)
	require.Len(t, future, 4)
	assert.Equal(t, sooner.ID, future[0].ID)

	upcoming, err := repo.FindUpcoming(ctx, entities.EventTypeGroundSchool, now, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, []int64{sooner.ID, later.ID}, []int64{upcoming[0].ID, upcoming[1].ID})

	limited, err := repo.FindUpcoming(ctx, entities.EventTypeGroundSchool, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.SetLessonPlan(ctx, past.ID, 5))
	require.NoError(t, repo.SetLessonPlan(ctx, later.ID, 5))
	uses, err := repo.CountLessonPlanUsesBefore(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{5: 1}, uses)
}

func TestEventRepository_DeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	st := s.Stores()
	e := createTestEvent(t, s, time.Now().Add(time.Hour))

	require.NoError(t, st.Participants.Save(ctx, &entities.Participant{EventID: e.ID, UserID: 2}))
	require.NoError(t, st.Votes.Upsert(ctx, &entities.Vote{EventID: e.ID, UserID: 2, LessonPlanID: 1}))
	require.NoError(t, st.Events.Delete(ctx, e.ID))

	_, err := st.Events.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	_, err = st.Participants.Find(ctx, e.ID, 2)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	votes, err := st.Votes.FindByEventID(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestVoteRepository_UpsertOverwrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	st := s.Stores()
	e := createTestEvent(t, s, time.Now().Add(time.Hour))

	require.NoError(t, st.Votes.Upsert(ctx, &entities.Vote{EventID: e.ID, UserID: 2, LessonPlanID: 1}))
	require.NoError(t, st.Votes.Upsert(ctx, &entities.Vote{EventID: e.ID, UserID: 2, LessonPlanID: 4}))

	votes, err := st.Votes.FindByEventID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, int64(4), votes[0].LessonPlanID)

	deleted, err := st.Votes.Delete(ctx, e.ID, 2)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = st.Votes.Delete(ctx, e.ID, 2)
	require.NoError(t, err)
	assert.False(t, deleted)
}
