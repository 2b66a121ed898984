package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockOrder(t *testing.T) {
	keys := []string{VotesKey(7), ScheduleKey, EventKey(7), ScheduleKey}
	assert.Equal(t, []string{"event:7", "schedule", "votes:7"}, LockOrder(keys))
	assert.Equal(t, []string{"votes:7", "schedule", "event:7", "schedule"}, keys, "input is left untouched")
	assert.Empty(t, LockOrder(nil))
}
