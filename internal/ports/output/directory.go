package output

import (
	"context"

	"trainingevents/internal/domain/entities"
)

// UserDirectory resolves users owned by the external user service.
// Lookups of unknown users return domain.ErrUserNotFound.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
}

// LessonPlanDirectory resolves lesson plans owned by the external lesson
// service. GetLessonPlan returns domain.ErrLessonPlanNotFound when unknown.
type LessonPlanDirectory interface {
	ExistsLessonPlan(ctx context.Context, id int64) (bool, error)
	ListPresentableLessonPlans(ctx context.Context) ([]int64, error)
	GetLessonPlan(ctx context.Context, id int64) (*entities.LessonPlan, error)
}

// AddressDirectory resolves addresses. Unknown IDs return domain.ErrAddressNotFound.
type AddressDirectory interface {
	GetAddress(ctx context.Context, id int64) (*entities.Address, error)
}
