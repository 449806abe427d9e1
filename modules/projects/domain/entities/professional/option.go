package professional

import (
	"fmt"

	"github.com/google/uuid"
)

// RoleOption is a label/value pair offered by the select-existing control.
type RoleOption struct {
	Label string
	Value uuid.UUID
}

// ToOptions maps professionals to select options. Entries with a nil id are
// skipped and duplicate ids keep their first occurrence.
func ToOptions(role RoleType, items []Professional) []RoleOption {
	out := make([]RoleOption, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, p := range items {
		if p.ID() == uuid.Nil {
			continue
		}
		if _, dup := seen[p.ID()]; dup {
			continue
		}
		seen[p.ID()] = struct{}{}
		out = append(out, RoleOption{
			Label: OptionLabel(role, p),
			Value: p.ID(),
		})
	}
	return out
}

func OptionLabel(role RoleType, p Professional) string {
	if p.Name() != "" {
		return p.Name()
	}
	return fmt.Sprintf("%s %s", role.Title(), p.ID().String()[:8])
}
