package experiment

import (
	"github.com/tomschang/betabern/datarecording"
	"github.com/tomschang/betabern/monitoring"
	"github.com/tomschang/betabern/sim"
	"github.com/tomschang/betabern/trial"
)

// posteriorRecorder is a hook that writes per-trial posterior snapshots
// into the data recorder and keeps the progress bar up to date.
type posteriorRecorder struct {
	runID  string
	every  uint64
	trials uint64

	recorder datarecording.DataRecorder
	bar      *monitoring.ProgressBar
}

// Func records the snapshot that is attached to the hook context.
func (h *posteriorRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != trial.HookPosAfterFlip {
		return
	}

	s, ok := ctx.Item.(trial.Snapshot)
	if !ok {
		return
	}

	if h.bar != nil {
		h.bar.IncrementFinished(1)
	}

	if s.Step%h.every != 0 && s.Step != h.trials {
		return
	}

	h.recorder.InsertData("trials", TrialSample{
		RunID: h.runID,
		Step:  s.Step,
		Head:  s.Head,
		Alpha: s.Alpha,
		Beta:  s.Beta,
		Mean:  s.Mean,
	})
}
