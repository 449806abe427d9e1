package project

type UpdatedEvent struct {
	Before Project
	Result Project
}

func NewUpdatedEvent(before, result Project) *UpdatedEvent {
	return &UpdatedEvent{Before: before, Result: result}
}
