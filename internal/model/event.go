package model

// EventType names a notification emitted to subscribers.
type EventType string

const (
	EventFocusChanged EventType = "focus_changed"
)

// Event is a notification for external subscribers.
type Event struct {
	Type             EventType     `json:"type"`
	FocusedContainer *ContainerDTO `json:"focused_container,omitempty"`
}

// Emitter receives events from the model.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(ev Event) { f(ev) }
