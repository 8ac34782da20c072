package models

import (
	"fmt"
	"strings"
)

// Role - роль вызывающего, выставляется шлюзом аутентификации
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleResponder Role = "responder"
	RoleAdmin     Role = "admin"
)

// ParseRole разбирает роль, пустая строка означает citizen
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleCitizen, nil
	case RoleCitizen, RoleResponder, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Caller - кто выполняет операцию
type Caller struct {
	UserID string
	Role   Role
}

// IsOperator - responder или admin
func (c Caller) IsOperator() bool {
	return c.Role == RoleResponder || c.Role == RoleAdmin
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
