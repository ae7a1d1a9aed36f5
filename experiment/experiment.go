// Package experiment assembles the engine, the updater, the recorder, and
// the monitor into one runnable coin-flip experiment.
package experiment

import (
	"github.com/tomschang/betabern/bernoulli"
	"github.com/tomschang/betabern/datarecording"
	"github.com/tomschang/betabern/monitoring"
	"github.com/tomschang/betabern/sim"
	"github.com/tomschang/betabern/trial"
)

// TrialSample is one recorded per-trial posterior snapshot.
type TrialSample struct {
	RunID string
	Step  uint64
	Head  bool
	Alpha float64
	Beta  float64
	Mean  float64
}

// RunSummary is the single row that describes a finished run.
type RunSummary struct {
	RunID  string
	Bias   float64
	Trials uint64
	Seed   int64
	Alpha  float64
	Beta   float64
	Mean   float64
}

// An Experiment provides the services required to run one sequence of
// Bernoulli trials with a live posterior.
type Experiment struct {
	id   string
	seed int64

	engine       sim.Engine
	updater      *trial.Updater
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
}

// ID returns the xid-based ID of the experiment.
func (e *Experiment) ID() string {
	return e.id
}

// Engine returns the engine used in the experiment.
func (e *Experiment) Engine() sim.Engine {
	return e.engine
}

// Updater returns the sequential conjugate updater of the experiment.
func (e *Experiment) Updater() *trial.Updater {
	return e.updater
}

// DataRecorder returns the data recorder used in the experiment.
func (e *Experiment) DataRecorder() datarecording.DataRecorder {
	return e.dataRecorder
}

// Monitor returns the monitor of the experiment. It is nil when monitoring
// is disabled.
func (e *Experiment) Monitor() *monitoring.Monitor {
	return e.monitor
}

// Run performs all the trials and returns the final posterior. Monitoring
// and recording never change the numbers; they only observe them.
func (e *Experiment) Run() (bernoulli.Posterior, error) {
	e.updater.StartRun()

	err := e.engine.Run()
	if err != nil {
		return bernoulli.Posterior{}, err
	}

	e.engine.Finished()

	posterior := e.updater.Posterior()

	e.dataRecorder.InsertData("runs", RunSummary{
		RunID:  e.id,
		Bias:   e.updater.Bias(),
		Trials: e.updater.TrialCount(),
		Seed:   e.seed,
		Alpha:  posterior.Alpha,
		Beta:   posterior.Beta,
		Mean:   posterior.Mean(),
	})
	e.dataRecorder.Flush()

	return posterior, nil
}

// Terminate terminates the experiment.
func (e *Experiment) Terminate() {
	e.dataRecorder.Close()
}
