// Package access decides whether an actor may perform an operation.
//
// A single capability check replaces per-rule validators: callers name the
// roles that are allowed and, optionally, the user the operation acts on.
package access

import (
	"fmt"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
)

// Roles is a set of roles allowed to perform an operation.
type Roles []entities.Role

var (
	AdminOnly         = Roles{entities.RoleAdmin}
	AdminOrInstructor = Roles{entities.RoleAdmin, entities.RoleInstructor}
	AnyAuthenticated  = Roles{entities.RoleAdmin, entities.RoleInstructor, entities.RoleStudent}
)

// Contains reports whether r is in the set.
func (rs Roles) Contains(r entities.Role) bool {
	for _, allowed := range rs {
		if allowed == r {
			return true
		}
	}
	return false
}

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil when allowed and a wrapped domain.ErrAccessDenied otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrAccessDenied, d.Reason)
}

// Check allows actor when its role is in roles.
func Check(actor *entities.Actor, roles Roles) Decision {
	if actor == nil {
		return Decision{Reason: "no authorization provided"}
	}
	if roles.Contains(actor.Role) {
		return Decision{Allowed: true}
	}
	return Decision{Reason: fmt.Sprintf("role is [%s]", actor.Role)}
}

// CheckSelfOr allows actor when its role is in roles or when it acts on its
// own user ID.
func CheckSelfOr(actor *entities.Actor, subjectUserID int64, roles Roles) Decision {
	if actor == nil {
		return Decision{Reason: "no authorization provided"}
	}
	if roles.Contains(actor.Role) || actor.UserID == subjectUserID {
		return Decision{Allowed: true}
	}
	return Decision{Reason: fmt.Sprintf("role is [%s] and user [%d] is not the caller [%d]", actor.Role, subjectUserID, actor.UserID)}
}
