package domain

import (
	"fmt"
	"strings"
)

// Role is the canonical authorisation level of a user. The backend has been
// seen to emit both "ADMIN" and "ROLE_ADMIN"; ParseRole folds both into the
// unprefixed form and nothing past the API boundary sees the prefix.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

const authorityPrefix = "ROLE_"

// ParseRole normalises s into a canonical Role.
func ParseRole(s string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, authorityPrefix)
	switch Role(v) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Authority returns the Spring-style "ROLE_" form.
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// Label is the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleUser:
		return "User"
	default:
		return "Unknown"
	}
}
