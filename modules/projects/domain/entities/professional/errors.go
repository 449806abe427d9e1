package professional

import "errors"

var (
	ErrNotFound     = errors.New("professional not found")
	ErrUnknownRole  = errors.New("unknown role type")
	ErrUnknownField = errors.New("unknown draft field")
	ErrUnknownSlot  = errors.New("unknown attachment slot")
	ErrDuplicate    = errors.New("professional with this licence number already exists")
)
