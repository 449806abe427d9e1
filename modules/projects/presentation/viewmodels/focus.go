package viewmodels

// FocusOrder lists the focusable inputs of a form in the order Enter moves
// through them.
type FocusOrder []string

// Next returns the input after current. It reports false when current is the
// last input or not part of the order.
func (f FocusOrder) Next(current string) (string, bool) {
	for i, id := range f {
		if id != current {
			continue
		}
		if i+1 < len(f) {
			return f[i+1], true
		}
		return "", false
	}
	return "", false
}

func (f FocusOrder) First() (string, bool) {
	if len(f) == 0 {
		return "", false
	}
	return f[0], true
}
