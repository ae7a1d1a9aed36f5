package sim

import (
	"log"
	"reflect"
)

// LogHookBase proves the basic logging utilities for hooks that log.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a hook that prints the event information.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	named, ok := evt.Handler().(Named)
	if ok {
		h.Printf("step %d, %s -> %s",
			evt.Step(), reflect.TypeOf(evt), named.Name())
	} else {
		h.Printf("step %d, %s", evt.Step(), reflect.TypeOf(evt))
	}
}
