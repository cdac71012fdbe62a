package models

import (
	"errors"
	"fmt"
)

// Role is the coarse permission level stored on a Profile.
type Role string

const (
	// RoleAdmin may perform every action on every resource type.
	RoleAdmin Role = "Admin"
	// RoleLibrarian may view, create and edit.
	RoleLibrarian Role = "Librarian"
	// RoleMember may only view. Default for new accounts.
	RoleMember Role = "Member"
)

// ErrUnknownRole is returned when a string does not name a Role.
var ErrUnknownRole = errors.New("unknown role")

// Roles lists all roles, highest privilege first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleLibrarian, RoleMember}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}

	return false
}

// ParseRole converts s into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}

	return r, nil
}
