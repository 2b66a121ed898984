package application

import (
	"context"
	"log"
	"time"

	"trainingevents/internal/ports/output"
)

// Dependencies wires output ports into the application services. Cache and
// Announcer are optional.
type Dependencies struct {
	UnitOfWork  output.UnitOfWork
	Stores      output.Stores
	Users       output.UserDirectory
	LessonPlans output.LessonPlanDirectory
	Addresses   output.AddressDirectory
	Cache       output.EventCache
	Announcer   output.Announcer
}

type clock func() time.Time

func invalidateEvent(ctx context.Context, cache output.EventCache, eventID int64) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, eventID); err != nil {
		log.Printf("⚠️ cache invalidate (event %d): %v", eventID, err)
	}
}
