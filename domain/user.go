// Package domain contains core concepts of the chat system.
// This file defines users and their roles.
package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole accepts a role name in any case.
// An empty string is not a role: callers decide what the default is.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Authority is the granted authority derived from a role, e.g. ROLE_ADMIN.
func (r Role) Authority() string { return "ROLE_" + string(r) }

// User is referenced by messages through its ID only.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// UserSummary is the public shape of a user: no credential.
type UserSummary struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
