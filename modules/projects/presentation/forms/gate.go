package forms

// Gate asks the user for confirmation and shows notifications. It must not
// block on anything but the user.
type Gate interface {
	Confirm(prompt string) bool
	Notify(message string)
}

// StaticGate answers every confirmation with Answer and records notifications.
type StaticGate struct {
	Answer   bool
	Prompts  []string
	Messages []string
}

func (g *StaticGate) Confirm(prompt string) bool {
	g.Prompts = append(g.Prompts, prompt)
	return g.Answer
}

func (g *StaticGate) Notify(message string) {
	g.Messages = append(g.Messages, message)
}
