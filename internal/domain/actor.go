package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(v string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(v)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", v)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// IsHRorAdmin reports roles that may act on any employee.
func (r Role) IsHRorAdmin() bool {
	return r == RoleHR || r == RoleAdmin
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(id string, role string) (Actor, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid actor id: %w", err)
	}
	r, err := ParseRole(role)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: uid, Role: r}, nil
}
