package discord

import (
	"fmt"
	"time"
)

const dateTimeLayout = "02/01/2006 15:04 MST"

// FormatEventDateTime renders t in loc, "" for the zero time.
func FormatEventDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateTimeLayout)
}

// Timestamp renders t as a Discord timestamp tag, shown in each reader's
// own time zone.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:F>", t.Unix())
}
