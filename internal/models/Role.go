package models

import (
	"errors"
	"strings"
)

// Role is the closed set of account roles. Authorization decisions
// always go through ParseRole so that casing in stored data or tokens
// ("Admin" vs "admin") can never bypass a role check.
type Role string

const (
	RoleStudent Role = "student"
	RoleDriver  Role = "driver"
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalizes and validates a role string.
// An empty input defaults to student, matching registration behaviour.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if role == "" {
		return RoleStudent, nil
	}
	switch role {
	case RoleStudent, RoleDriver, RoleAdmin, RoleTeacher:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}
