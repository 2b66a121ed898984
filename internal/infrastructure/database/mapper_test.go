package database

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestTimestamptz(t *testing.T) {
	assert.False(t, timestamptz(time.Time{}).Valid)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ts := timestamptz(now)
	assert.True(t, ts.Valid)
	assert.Equal(t, now, pgtypeTimestamptzToTime(ts))
	assert.True(t, pgtypeTimestamptzToTime(pgtype.Timestamptz{}).IsZero())
}

func TestNullableRoundTrip(t *testing.T) {
	assert.Nil(t, int8Ptr(ptrInt8(nil)))
	n := int64(42)
	assert.Equal(t, &n, int8Ptr(ptrInt8(&n)))

	assert.Nil(t, boolPtr(ptrBool(nil)))
	f := false
	got := boolPtr(ptrBool(&f))
	if assert.NotNil(t, got) {
		assert.False(t, *got)
	}
}
