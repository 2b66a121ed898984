package output

import (
	"context"
	"fmt"
	"sort"
)

// Stores groups the repositories bound to one unit of work.
type Stores struct {
	Events       EventRepository
	Participants ParticipantRepository
	Votes        VoteRepository
}

// UnitOfWork runs a function against repositories bound to a single
// transaction. Units naming the same key never run concurrently.
type UnitOfWork interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context, s Stores) error) error
	// DoAll holds every key for the whole unit. Keys are taken in
	// LockOrder so that overlapping units cannot deadlock.
	DoAll(ctx context.Context, keys []string, fn func(ctx context.Context, s Stores) error) error
}

// LockOrder returns keys sorted and without duplicates.
func LockOrder(keys []string) []string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	out := sorted[:0]
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}

// ScheduleKey serializes event creation and start time changes.
const ScheduleKey = "schedule"

// ParticipantKey serializes state transitions of one (event, user) pair.
func ParticipantKey(eventID, userID int64) string {
	return fmt.Sprintf("participant:%d:%d", eventID, userID)
}

// VotesKey serializes vote writes and the assignment tally of one event.
func VotesKey(eventID int64) string {
	return fmt.Sprintf("votes:%d", eventID)
}

// EventKey serializes every write to one event row: edits, lifecycle
// transitions, deletion and lesson plan assignment.
func EventKey(eventID int64) string {
	return fmt.Sprintf("event:%d", eventID)
}
