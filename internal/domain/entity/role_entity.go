package entity

import (
	"errors"
	"strings"
)

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
)

var ErrUnknownRole = errors.New(`role must be "member" or "manager"`)

// ParseRole maps user input onto a Role. An empty value yields RoleMember.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleMember:
		return RoleMember, nil
	case RoleManager:
		return RoleManager, nil
	}
	return "", ErrUnknownRole
}

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleManager
}

// Title is the capitalized role name, e.g. "Manager".
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (r Role) String() string { return string(r) }
