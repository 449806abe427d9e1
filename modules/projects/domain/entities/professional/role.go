package professional

import (
	"fmt"
	"strings"
)

// RoleType is the professional category a project can be associated with.
type RoleType string

const (
	Engineer   RoleType = "engineer"
	Architect  RoleType = "architect"
	Accountant RoleType = "accountant"
)

// RoleTypes lists every role in display order.
var RoleTypes = []RoleType{Engineer, Architect, Accountant}

func ParseRoleType(v string) (RoleType, error) {
	r := RoleType(strings.ToLower(strings.TrimSpace(v)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, v)
	}
	return r, nil
}

func (r RoleType) Valid() bool {
	switch r {
	case Engineer, Architect, Accountant:
		return true
	default:
		return false
	}
}

func (r RoleType) Title() string {
	switch r {
	case Engineer:
		return "Engineer"
	case Architect:
		return "Architect"
	case Accountant:
		return "Accountant"
	default:
		return string(r)
	}
}

func (r RoleType) LocaleKey() string {
	return "Professionals.Roles." + r.Title()
}
