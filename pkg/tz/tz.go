// Package tz resolves the display time zone.
package tz

import (
	"fmt"
	"time"
)

// Load returns the IANA location name; "" means UTC.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}
