package input

import "context"

// AssignmentReport describes one assignment run.
type AssignmentReport struct {
	Assigned map[int64]int64 // event ID -> lesson plan ID
	Skipped  []int64
	Failed   map[int64]error
}

type AssignmentUseCase interface {
	Assign(ctx context.Context) (*AssignmentReport, error)
}
