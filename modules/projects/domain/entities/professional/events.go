package professional

type CreatedEvent struct {
	Result Professional
}

func NewCreatedEvent(result Professional) *CreatedEvent {
	return &CreatedEvent{Result: result}
}
