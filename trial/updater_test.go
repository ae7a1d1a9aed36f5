package trial_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tomschang/betabern/bernoulli"
	"github.com/tomschang/betabern/sim"
	"github.com/tomschang/betabern/trial"
)

func runUpdater(
	source bernoulli.Source,
	bias float64,
	trials int64,
) *trial.Updater {
	engine := sim.NewSerialEngine()
	updater, err := trial.NewUpdater("Updater", engine, source, bias, trials)
	Expect(err).NotTo(HaveOccurred())

	updater.StartRun()
	Expect(engine.Run()).To(Succeed())

	return updater
}

var _ = Describe("Updater", func() {
	It("should reject a bias outside [0, 1]", func() {
		engine := sim.NewSerialEngine()
		src := bernoulli.NewRandSource(1)

		_, err := trial.NewUpdater("Updater", engine, src, -0.1, 10)
		Expect(err).To(MatchError(trial.ErrInvalidBias))

		_, err = trial.NewUpdater("Updater", engine, src, 1.1, 10)
		Expect(err).To(MatchError(trial.ErrInvalidBias))
	})

	It("should reject a negative trial count", func() {
		engine := sim.NewSerialEngine()
		src := bernoulli.NewRandSource(1)

		_, err := trial.NewUpdater("Updater", engine, src, 0.5, -1)
		Expect(err).To(MatchError(trial.ErrInvalidTrialCount))
	})

	It("should return the prior unchanged for a zero-trial run", func() {
		updater := runUpdater(bernoulli.NewRandSource(1), 0.5, 0)

		posterior := updater.Posterior()
		Expect(posterior.Alpha).To(Equal(1.0))
		Expect(posterior.Beta).To(Equal(1.0))
		Expect(posterior.Mean()).To(Equal(0.5))
		Expect(updater.Done()).To(BeTrue())

		_, err := posterior.MAP()
		Expect(err).To(MatchError(bernoulli.ErrModeUndefined))
	})

	It("should count only heads when the bias is 1", func() {
		updater := runUpdater(bernoulli.NewRandSource(1), 1.0, 10)

		posterior := updater.Posterior()
		Expect(posterior.Alpha).To(Equal(11.0))
		Expect(posterior.Beta).To(Equal(1.0))
	})

	It("should count only tails when the bias is 0", func() {
		updater := runUpdater(bernoulli.NewRandSource(1), 0.0, 10)

		posterior := updater.Posterior()
		Expect(posterior.Alpha).To(Equal(1.0))
		Expect(posterior.Beta).To(Equal(11.0))
	})

	It("should keep the pseudo-count invariant", func() {
		updater := runUpdater(bernoulli.NewRandSource(7), 0.3, 1000)

		posterior := updater.Posterior()
		Expect(posterior.Alpha + posterior.Beta).To(Equal(1002.0))
		Expect(posterior.Alpha).To(BeNumerically(">=", 1.0))
		Expect(posterior.Beta).To(BeNumerically(">=", 1.0))
		Expect(updater.Completed()).To(Equal(uint64(1000)))
	})

	It("should be deterministic given a fixed draw sequence", func() {
		draws := []float64{0.1, 0.9, 0.4, 0.6, 0.2}

		first := runUpdater(&bernoulli.SequenceSource{Draws: draws}, 0.5, 5)
		second := runUpdater(&bernoulli.SequenceSource{Draws: draws}, 0.5, 5)

		Expect(first.Posterior()).To(Equal(second.Posterior()))
		Expect(first.Posterior().Alpha).To(Equal(4.0))
		Expect(first.Posterior().Beta).To(Equal(3.0))
	})

	It("should converge to the hidden bias", func() {
		updater := runUpdater(bernoulli.NewRandSource(42), 0.5, 100000)

		Expect(updater.Posterior().Mean()).To(BeNumerically("~", 0.5, 0.01))
	})

	It("should expose a snapshot after every flip", func() {
		engine := sim.NewSerialEngine()
		src := &bernoulli.SequenceSource{Draws: []float64{0.1, 0.9, 0.3}}
		updater, err := trial.NewUpdater("Updater", engine, src, 0.5, 3)
		Expect(err).NotTo(HaveOccurred())

		collector := &snapshotCollector{}
		updater.AcceptHook(collector)

		updater.StartRun()
		Expect(engine.Run()).To(Succeed())

		Expect(collector.snapshots).To(HaveLen(3))
		Expect(collector.snapshots[0]).To(Equal(trial.Snapshot{
			Step: 1, Head: true, Alpha: 2, Beta: 1, Mean: 2.0 / 3.0,
		}))
		Expect(collector.snapshots[2].Step).To(Equal(uint64(3)))
		Expect(collector.snapshots[2].Alpha +
			collector.snapshots[2].Beta).To(Equal(5.0))
	})
})

type snapshotCollector struct {
	snapshots []trial.Snapshot
}

func (c *snapshotCollector) Func(ctx sim.HookCtx) {
	if ctx.Pos != trial.HookPosAfterFlip {
		return
	}

	c.snapshots = append(c.snapshots, ctx.Item.(trial.Snapshot))
}
