package forms

import "strings"

// Mode is the state of one role section. Holding it in a single field keeps
// the three states mutually exclusive.
type Mode int

const (
	ModeSelectExisting Mode = iota
	ModeNone
	ModeAddNew
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeAddNew:
		return "add"
	default:
		return "select"
	}
}

func (m Mode) valid() bool {
	return m == ModeSelectExisting || m == ModeNone || m == ModeAddNew
}

func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "select", "select_existing":
		return ModeSelectExisting, nil
	case "none":
		return ModeNone, nil
	case "add", "add_new":
		return ModeAddNew, nil
	default:
		return 0, ErrInvalidMode.WithTemplateData(map[string]any{"Mode": v})
	}
}
