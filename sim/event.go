// Package sim provides the serial event engine that drives trial runs.
package sim

// Step is the virtual time of a run, counted in trials. Step k is the time
// at which the k-th flip happens.
type Step uint64

// An Event is something going to happen at a future step.
type Event interface {
	// Step returns the step at which the event should happen.
	Step() Step

	// Handler returns the handler that should handle the event.
	Handler() Handler
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID      string
	step    Step
	handler Handler
}

// NewEventBase creates a new EventBase.
func NewEventBase(step Step, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.step = step
	e.handler = handler

	return e
}

// Step returns the step at which the event is going to happen.
func (e EventBase) Step() Step {
	return e.step
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler handles events. An event can only be scheduled by the handler
// that will process it, except for the event that kick-starts the run.
type Handler interface {
	Handle(e Event) error
}
