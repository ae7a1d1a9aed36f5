package sim

// StepTeller can be used to get the current step of a run.
type StepTeller interface {
	CurrentStep() Step
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// A RunEndHandler is a handler that is called after the run ends.
type RunEndHandler interface {
	Handle(now Step)
}

// An Engine is a unit that keeps a trial run going.
type Engine interface {
	Hookable
	StepTeller
	EventScheduler

	// Run will process all the events until the run finishes.
	Run() error

	// Pause will pause the run until Continue is called.
	Pause()

	// Continue will continue the paused run.
	Continue()

	// RegisterRunEndHandler registers a handler that performs some actions
	// after the run is finished.
	RegisterRunEndHandler(handler RunEndHandler)

	// Finished invokes all the registered RunEndHandlers.
	Finished()
}
