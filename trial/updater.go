// Package trial implements the sequential conjugate updater that runs
// Bernoulli trials as events and folds each outcome into a Beta posterior.
package trial

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tomschang/betabern/bernoulli"
	"github.com/tomschang/betabern/sim"
)

// ErrInvalidBias is returned when the hidden bias is outside [0, 1].
var ErrInvalidBias = errors.New("bias must be in [0, 1]")

// ErrInvalidTrialCount is returned when the trial count is negative.
var ErrInvalidTrialCount = errors.New("trial count must not be negative")

// HookPosAfterFlip is a hook position that triggers after a flip has been
// folded into the posterior. The hook item is a Snapshot.
var HookPosAfterFlip = &sim.HookPos{Name: "AfterFlip"}

// A Snapshot captures the posterior state right after one flip.
type Snapshot struct {
	Step  uint64
	Head  bool
	Alpha float64
	Beta  float64
	Mean  float64
}

// A FlipEvent triggers one Bernoulli trial.
type FlipEvent struct {
	*sim.EventBase
}

// NewFlipEvent creates a new FlipEvent.
func NewFlipEvent(step sim.Step, handler sim.Handler) *FlipEvent {
	evt := new(FlipEvent)
	evt.EventBase = sim.NewEventBase(step, handler)

	return evt
}

// An Updater owns a Beta posterior and updates it once per flip event. It
// moves through two states, awaiting flips and done, with one identical
// self-transition per trial.
type Updater struct {
	sim.HookableBase
	lock sync.Mutex

	name   string
	engine sim.Engine
	source bernoulli.Source
	bias   float64
	trials uint64

	completed uint64
	posterior bernoulli.Posterior
}

// NewUpdater creates an Updater that will run `trials` flips of a coin with
// the given hidden bias. The bias must be in [0, 1] and the trial count must
// not be negative; anything else is rejected before the run starts.
func NewUpdater(
	name string,
	engine sim.Engine,
	source bernoulli.Source,
	bias float64,
	trials int64,
) (*Updater, error) {
	if math.IsNaN(bias) || bias < 0 || bias > 1 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidBias, bias)
	}

	if trials < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidTrialCount, trials)
	}

	u := &Updater{
		name:      name,
		engine:    engine,
		source:    source,
		bias:      bias,
		trials:    uint64(trials),
		posterior: bernoulli.UniformPrior(),
	}

	return u, nil
}

// Name returns the name of the updater.
func (u *Updater) Name() string {
	return u.name
}

// StartRun schedules the first flip. A zero-trial run schedules nothing and
// leaves the prior untouched.
func (u *Updater) StartRun() {
	if u.trials == 0 {
		return
	}

	u.engine.Schedule(NewFlipEvent(1, u))
}

// Handle processes one flip event.
func (u *Updater) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *FlipEvent:
		return u.flip(evt)
	default:
		return fmt.Errorf("updater %s cannot handle event %T", u.name, e)
	}
}

func (u *Updater) flip(evt *FlipEvent) error {
	u.lock.Lock()

	head := bernoulli.Flip(u.source, u.bias)
	u.posterior.Observe(head)
	u.completed++

	snapshot := Snapshot{
		Step:  u.completed,
		Head:  head,
		Alpha: u.posterior.Alpha,
		Beta:  u.posterior.Beta,
		Mean:  u.posterior.Mean(),
	}
	moreToCome := u.completed < u.trials

	u.lock.Unlock()

	u.InvokeHook(sim.HookCtx{
		Domain: u,
		Pos:    HookPosAfterFlip,
		Item:   snapshot,
	})

	if moreToCome {
		u.engine.Schedule(NewFlipEvent(evt.Step()+1, u))
	}

	return nil
}

// Posterior returns a copy of the current posterior.
func (u *Updater) Posterior() bernoulli.Posterior {
	u.lock.Lock()
	defer u.lock.Unlock()

	return u.posterior
}

// Completed returns the number of flips performed so far.
func (u *Updater) Completed() uint64 {
	u.lock.Lock()
	defer u.lock.Unlock()

	return u.completed
}

// TrialCount returns the total number of flips the run will perform.
func (u *Updater) TrialCount() uint64 {
	return u.trials
}

// Bias returns the hidden bias the run flips against.
func (u *Updater) Bias() float64 {
	return u.bias
}

// Done returns true when all flips have been performed.
func (u *Updater) Done() bool {
	u.lock.Lock()
	defer u.lock.Unlock()

	return u.completed == u.trials
}
