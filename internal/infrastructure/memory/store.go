// Package memory keeps events, participants and votes in process memory.
// It backs local development (STORAGE=memory) and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var _ output.UnitOfWork = (*Store)(nil)

type pair struct {
	eventID int64
	userID  int64
}

// Store is safe for concurrent use. Units of work are serialized per key;
// they do not roll back writes made before fn returns an error.
type Store struct {
	mu           sync.RWMutex
	events       map[int64]entities.Event
	nextEventID  int64
	participants map[pair]entities.Participant
	votes        map[pair]entities.Vote
	locks        *keyedLock
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		events:       make(map[int64]entities.Event),
		participants: make(map[pair]entities.Participant),
		votes:        make(map[pair]entities.Vote),
		locks:        newKeyedLock(),
		now:          time.Now,
	}
}

// Stores returns repositories backed by s.
func (s *Store) Stores() output.Stores {
	return output.Stores{
		Events:       &EventRepository{s: s},
		Participants: &ParticipantRepository{s: s},
		Votes:        &VoteRepository{s: s},
	}
}

// Do runs fn while holding the lock for key.
func (s *Store) Do(ctx context.Context, key string, fn func(ctx context.Context, st output.Stores) error) error {
	return s.DoAll(ctx, []string{key}, fn)
}

// DoAll runs fn while holding the locks for every key, taken in
// output.LockOrder.
func (s *Store) DoAll(ctx context.Context, keys []string, fn func(ctx context.Context, st output.Stores) error) error {
	ordered := output.LockOrder(keys)
	unlocks := make([]func(), 0, len(ordered))
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()
	for _, key := range ordered {
		unlock, err := s.locks.lock(ctx, key)
		if err != nil {
			return err
		}
		unlocks = append(unlocks, unlock)
	}
	return fn(ctx, s.Stores())
}

// keyedLock hands out one single-slot semaphore per key and forgets keys
// nobody holds or waits for.
type keyedLock struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{slots: make(map[string]*slot)}
}

func (k *keyedLock) lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	sl, ok := k.slots[key]
	if !ok {
		sl = &slot{ch: make(chan struct{}, 1)}
		k.slots[key] = sl
	}
	sl.refs++
	k.mu.Unlock()

	select {
	case sl.ch <- struct{}{}:
		return func() {
			<-sl.ch
			k.release(key, sl)
		}, nil
	case <-ctx.Done():
		k.release(key, sl)
		return nil, ctx.Err()
	}
}

func (k *keyedLock) release(key string, sl *slot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	sl.refs--
	if sl.refs == 0 {
		delete(k.slots, key)
	}
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneEvent(e entities.Event) entities.Event {
	e.LessonPlanID = cloneInt64(e.LessonPlanID)
	e.AddressID = cloneInt64(e.AddressID)
	return e
}

func cloneParticipant(p entities.Participant) entities.Participant {
	p.Confirmed = cloneBool(p.Confirmed)
	p.Declined = cloneBool(p.Declined)
	p.CheckedIn = cloneBool(p.CheckedIn)
	p.Member = cloneBool(p.Member)
	return p
}
