// Package access holds the center-scoping and self-visibility rules.
// Everything here is pure: callers load the actor once per request and
// thread it through explicitly, never via ambient state.
package access

import (
	"errors"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

var (
	// ErrCenterNotAllowed is returned when a manager requests a center
	// outside their assigned set.
	ErrCenterNotAllowed = errors.New("center not in actor's assigned set")

	// ErrUnknownRole is returned for roles outside the closed enumeration.
	ErrUnknownRole = errors.New("unknown user role")
)

// Actor is the request-scoped view of the authenticated user that every
// access decision needs. CenterIDs is the manager's assigned set; admins
// leave it empty and bypass it entirely.
type Actor struct {
	UserID          uint
	Role            authorization.UserRole
	CenterIDs       []uint
	LinkedSubjectID *uint
}

// Scope is the set of center ids a query must be restricted to.
// All=true means unrestricted (admins only).
type Scope struct {
	All       bool
	CenterIDs []uint
}

// Empty reports whether the scope matches no centers at all. A manager
// with no assignments gets an empty scope, not an error: their listings
// are simply empty.
func (s Scope) Empty() bool {
	return !s.All && len(s.CenterIDs) == 0
}

// Contains reports whether a center id falls inside the scope.
func (s Scope) Contains(centerID uint) bool {
	if s.All {
		return true
	}
	for _, id := range s.CenterIDs {
		if id == centerID {
			return true
		}
	}
	return false
}

// ResolveCenterScope returns the center set queries must be restricted to.
// requested == nil means "all centers the actor may see": unrestricted for
// admins, exactly the assigned set for managers, never literal all-access.
// A manager requesting a specific center outside their set is rejected
// rather than silently narrowed, so the caller can surface a forbidden.
func ResolveCenterScope(actor Actor, requested *uint) (Scope, error) {
	switch actor.Role {
	case authorization.RoleAdmin:
		if requested == nil {
			return Scope{All: true}, nil
		}
		return Scope{CenterIDs: []uint{*requested}}, nil

	case authorization.RoleManager:
		if requested == nil {
			ids := make([]uint, len(actor.CenterIDs))
			copy(ids, actor.CenterIDs)
			return Scope{CenterIDs: ids}, nil
		}
		for _, cid := range actor.CenterIDs {
			if cid == *requested {
				return Scope{CenterIDs: []uint{*requested}}, nil
			}
		}
		return Scope{}, ErrCenterNotAllowed
	}

	return Scope{}, ErrUnknownRole
}

// CanViewSubject implements the self-visibility rule: a user linked to a
// subject cannot view that subject's observation data, regardless of role.
// Pure, no side effects; callers suppress data on false rather than erroring
// with details that would leak what is being hidden.
func CanViewSubject(actor Actor, subjectID uint) bool {
	return actor.LinkedSubjectID == nil || *actor.LinkedSubjectID != subjectID
}
