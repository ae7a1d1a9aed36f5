package trial

import (
	"log"

	"github.com/tomschang/betabern/sim"
)

// PosteriorLogger is a hook that prints the posterior after every flip.
type PosteriorLogger struct {
	sim.LogHookBase
}

// NewPosteriorLogger returns a PosteriorLogger which writes into the logger.
func NewPosteriorLogger(logger *log.Logger) *PosteriorLogger {
	h := new(PosteriorLogger)
	h.Logger = logger

	return h
}

// Func writes the snapshot information into the logger.
func (h *PosteriorLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosAfterFlip {
		return
	}

	s, ok := ctx.Item.(Snapshot)
	if !ok {
		return
	}

	outcome := "T"
	if s.Head {
		outcome = "H"
	}

	h.Printf("step %d, %s, Beta(%v, %v), mean %.6f",
		s.Step, outcome, s.Alpha, s.Beta, s.Mean)
}
