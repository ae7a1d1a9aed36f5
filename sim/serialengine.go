package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine is an Engine that always runs events one after another.
type SerialEngine struct {
	HookableBase

	stepLock sync.RWMutex
	step     Step
	queue    EventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	runEndHandlers []RunEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = NewEventQueue()

	return e
}

// Schedule registers an event to happen in the future.
func (e *SerialEngine) Schedule(evt Event) {
	now := e.readNow()
	if evt.Step() < now {
		log.Panic("scheduling an event earlier than the current step")
	}

	e.queue.Push(evt)
}

func (e *SerialEngine) readNow() Step {
	e.stepLock.RLock()
	s := e.step
	e.stepLock.RUnlock()

	return s
}

func (e *SerialEngine) writeNow(s Step) {
	e.stepLock.Lock()
	e.step = s
	e.stepLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.queue.Len() == 0 {
			return nil
		}

		e.pauseLock.Lock()

		evt := e.queue.Pop()
		now := e.readNow()
		if evt.Step() < now {
			log.Panicf(
				"cannot run event in the past, evt %s @ %d, now %d",
				reflect.TypeOf(evt), evt.Step(), now,
			)
		}
		e.writeNow(evt.Step())

		hookCtx := HookCtx{
			Domain: e,
			Pos:    HookPosBeforeEvent,
			Item:   evt,
		}
		e.InvokeHook(hookCtx)

		handler := evt.Handler()
		err := handler.Handle(evt)
		if err != nil {
			e.pauseLock.Unlock()
			return err
		}

		hookCtx.Pos = HookPosAfterEvent
		e.InvokeHook(hookCtx)

		e.pauseLock.Unlock()
	}
}

// Pause prevents the SerialEngine from triggering more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentStep returns the step that the engine is at. Specifically, the
// step of the current event.
func (e *SerialEngine) CurrentStep() Step {
	return e.readNow()
}

// RegisterRunEndHandler registers a handler to be invoked after the run
// ends.
func (e *SerialEngine) RegisterRunEndHandler(handler RunEndHandler) {
	e.runEndHandlers = append(e.runEndHandlers, handler)
}

// Finished should be called after the run ends. This function calls all the
// registered RunEndHandlers.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.runEndHandlers {
		h.Handle(now)
	}
}
