// Package scheduler runs lesson plan assignment periodically.
package scheduler

import (
	"context"
	"log"
	"time"

	"trainingevents/internal/ports/input"
)

// Run calls Assign every interval until ctx is done. A run that fails is
// logged and the next tick tries again.
func Run(ctx context.Context, uc input.AssignmentUseCase, interval time.Duration) {
	if interval <= 0 {
		log.Println("⚠️ periodic assignment disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce(ctx, uc)
		}
	}
}

func runOnce(ctx context.Context, uc input.AssignmentUseCase) {
	report, err := uc.Assign(ctx)
	if err != nil {
		log.Printf("❌ assignment run: %v", err)
		return
	}
	log.Printf("✅ assignment run: %d assigned, %d skipped, %d failed",
		len(report.Assigned), len(report.Skipped), len(report.Failed))
}
