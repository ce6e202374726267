package authorization

import "fmt"

// UserRole is the closed set of operator roles. Role checks switch
// exhaustively over these values; unknown strings are rejected at the
// boundaries instead of defaulting.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleManager
}

// ParseUserRole validates a role string against the closed set.
func ParseUserRole(s string) (UserRole, error) {
	role := UserRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", s)
	}
	return role, nil
}

// SubjectRole is the closed set of staff roles being observed.
type SubjectRole string

const (
	SubjectRoleNanny            SubjectRole = "nanny"
	SubjectRoleDriver           SubjectRole = "driver"
	SubjectRoleManagerAsSubject SubjectRole = "manager_as_subject"
)

func (r SubjectRole) String() string {
	return string(r)
}

func (r SubjectRole) IsValid() bool {
	switch r {
	case SubjectRoleNanny, SubjectRoleDriver, SubjectRoleManagerAsSubject:
		return true
	}
	return false
}

// Label returns the human-readable form used in prompts and exports.
func (r SubjectRole) Label() string {
	switch r {
	case SubjectRoleNanny:
		return "nanny"
	case SubjectRoleDriver:
		return "driver"
	case SubjectRoleManagerAsSubject:
		return "manager (as subject)"
	}
	return string(r)
}

// ParseSubjectRole validates a subject role string against the closed set.
func ParseSubjectRole(s string) (SubjectRole, error) {
	role := SubjectRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid subject role %q", s)
	}
	return role, nil
}
