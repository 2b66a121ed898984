package application

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trainingevents/internal/domain/entities"
	"trainingevents/internal/infrastructure/directory"
	"trainingevents/internal/infrastructure/memory"
	"trainingevents/internal/ports/output"
)

const (
	adminID      int64 = 1
	instructorID int64 = 2
	studentID    int64 = 3
	student2ID   int64 = 4
	instructor2  int64 = 5
	hangarID     int64 = 10
)

var (
	admin      = &entities.Actor{UserID: adminID, Role: entities.RoleAdmin}
	instructor = &entities.Actor{UserID: instructorID, Role: entities.RoleInstructor}
	student    = &entities.Actor{UserID: studentID, Role: entities.RoleStudent}
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	dir       *directory.Static
	cache     *recordingCache
	announcer *recordingAnnouncer
	deps      Dependencies
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	dir := directory.NewStatic(directory.Data{
		Users: []entities.User{
			{ID: adminID, Username: "ada", DisplayName: "Ada", Role: entities.RoleAdmin},
			{ID: instructorID, Username: "ivan", DisplayName: "Ivan", Role: entities.RoleInstructor},
			{ID: studentID, Username: "sam", DisplayName: "Sam", Role: entities.RoleStudent},
			{ID: student2ID, Username: "sue", DisplayName: "Sue", Role: entities.RoleStudent},
			{ID: instructor2, Username: "iris", DisplayName: "Iris", Role: entities.RoleInstructor},
		},
		LessonPlans: []entities.LessonPlan{
			{ID: 1, Title: "Stalls", Presentable: true, Activities: []entities.Activity{
				{Type: entities.ActivityTypeLesson, Title: "Power-off stalls"},
				{Type: "QUIZ", Title: "Stall quiz"},
				{Type: entities.ActivityTypeLesson, Title: "Power-on stalls"},
			}},
			{ID: 2, Title: "Steep turns", Presentable: true},
			{ID: 3, Title: "Draft", Presentable: false},
		},
		Addresses: []entities.Address{{ID: hangarID, Name: "Hangar 2", City: "Toulouse"}},
	})
	cache := newRecordingCache()
	announcer := &recordingAnnouncer{}
	return &fixture{
		store:     store,
		dir:       dir,
		cache:     cache,
		announcer: announcer,
		now:       testNow,
		deps: Dependencies{
			UnitOfWork:  store,
			Stores:      store.Stores(),
			Users:       dir,
			LessonPlans: dir,
			Addresses:   dir,
			Cache:       cache,
			Announcer:   announcer,
		},
	}
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) events() *EventService {
	s := NewEventService(f.deps)
	s.now = f.clock
	s.newCode = func() (string, error) { return "K7QZ", nil }
	return s
}

func (f *fixture) participants() *ParticipantService {
	s := NewParticipantService(f.deps)
	s.now = f.clock
	return s
}

func (f *fixture) votes() *VoteService {
	return NewVoteService(f.deps)
}

func (f *fixture) assignment() *AssignmentService {
	s := NewAssignmentService(f.deps)
	s.now = f.clock
	return s
}

// addEvent stores an event directly, bypassing the conflict check.
func (f *fixture) addEvent(t *testing.T, e entities.Event) int64 {
	t.Helper()
	if e.Title == "" {
		e.Title = "Ground school"
	}
	if e.Type == "" {
		e.Type = entities.EventTypeGroundSchool
	}
	if e.LeadID == 0 {
		e.LeadID = instructorID
	}
	require.NoError(t, f.deps.Stores.Events.Create(context.Background(), &e))
	return e.ID
}

func (f *fixture) event(t *testing.T, id int64) *entities.Event {
	t.Helper()
	e, err := f.deps.Stores.Events.FindByID(context.Background(), id)
	require.NoError(t, err)
	return e
}

func (f *fixture) participant(t *testing.T, eventID, userID int64) *entities.Participant {
	t.Helper()
	p, err := f.deps.Stores.Participants.Find(context.Background(), eventID, userID)
	require.NoError(t, err)
	return p
}

type recordingCache struct {
	mu          sync.Mutex
	events      map[int64]*entities.EventDetails
	upcoming    map[string][]entities.Event
	invalidated []int64
}

var _ output.EventCache = (*recordingCache)(nil)

func newRecordingCache() *recordingCache {
	return &recordingCache{
		events:   make(map[int64]*entities.EventDetails),
		upcoming: make(map[string][]entities.Event),
	}
}

func upcomingKey(t entities.EventType, count int) string {
	return fmt.Sprintf("%s/%d", t, count)
}

func (c *recordingCache) GetEvent(_ context.Context, id int64) (*entities.EventDetails, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.events[id]
	return d, ok, nil
}

func (c *recordingCache) PutEvent(_ context.Context, d *entities.EventDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[d.Event.ID] = d
	return nil
}

func (c *recordingCache) GetUpcoming(_ context.Context, t entities.EventType, count int) ([]entities.Event, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	events, ok := c.upcoming[upcomingKey(t, count)]
	return events, ok, nil
}

func (c *recordingCache) PutUpcoming(_ context.Context, t entities.EventType, count int, events []entities.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upcoming[upcomingKey(t, count)] = events
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.events, id)
	c.upcoming = make(map[string][]entities.Event)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type recordingAnnouncer struct {
	mu       sync.Mutex
	started  []int64
	assigned map[int64]int64
}

var _ output.Announcer = (*recordingAnnouncer)(nil)

func (a *recordingAnnouncer) EventStarted(_ context.Context, e entities.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = append(a.started, e.ID)
	return nil
}

func (a *recordingAnnouncer) LessonPlanAssigned(_ context.Context, e entities.Event, lp entities.LessonPlan) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.assigned == nil {
		a.assigned = make(map[int64]int64)
	}
	a.assigned[e.ID] = lp.ID
	return nil
}

// pausingUnitOfWork holds every unit that takes key, right after its locks
// are acquired, until resume is closed. entered is closed when the first
// such unit is held.
type pausingUnitOfWork struct {
	output.UnitOfWork
	key     string
	entered chan struct{}
	resume  chan struct{}
	once    sync.Once
}

func newPausingUnitOfWork(inner output.UnitOfWork, key string) *pausingUnitOfWork {
	return &pausingUnitOfWork{
		UnitOfWork: inner,
		key:        key,
		entered:    make(chan struct{}),
		resume:     make(chan struct{}),
	}
}

func (u *pausingUnitOfWork) Do(ctx context.Context, key string, fn func(context.Context, output.Stores) error) error {
	return u.DoAll(ctx, []string{key}, fn)
}

func (u *pausingUnitOfWork) DoAll(ctx context.Context, keys []string, fn func(context.Context, output.Stores) error) error {
	if !slices.Contains(keys, u.key) {
		return u.UnitOfWork.DoAll(ctx, keys, fn)
	}
	return u.UnitOfWork.DoAll(ctx, keys, func(ctx context.Context, st output.Stores) error {
		u.once.Do(func() { close(u.entered) })
		<-u.resume
		return fn(ctx, st)
	})
}

// assertBlocked fails when done yields before a short grace period.
func assertBlocked(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		t.Fatalf("finished while another unit held the lock (err=%v)", err)
	case <-time.After(50 * time.Millisecond):
	}
}
