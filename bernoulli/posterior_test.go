package bernoulli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomschang/betabern/bernoulli"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestUniformPrior(t *testing.T) {
	p := bernoulli.UniformPrior()

	assert.Equal(t, 1.0, p.Alpha)
	assert.Equal(t, 1.0, p.Beta)
	assert.Equal(t, uint64(0), p.Observations())
	assert.Equal(t, 0.5, p.Mean())
}

func TestObserveIncrementsOneCounter(t *testing.T) {
	p := bernoulli.UniformPrior()

	p.Observe(true)
	assert.Equal(t, 2.0, p.Alpha)
	assert.Equal(t, 1.0, p.Beta)

	p.Observe(false)
	assert.Equal(t, 2.0, p.Alpha)
	assert.Equal(t, 2.0, p.Beta)
}

func TestPseudoCountInvariant(t *testing.T) {
	p := bernoulli.UniformPrior()

	for i := 0; i < 1000; i++ {
		p.Observe(i%3 == 0)

		assert.Equal(t, float64(i)+3, p.Alpha+p.Beta)
		assert.GreaterOrEqual(t, p.Alpha, 1.0)
		assert.GreaterOrEqual(t, p.Beta, 1.0)
	}
}

func TestMAPUndefinedAtPrior(t *testing.T) {
	p := bernoulli.UniformPrior()

	_, err := p.MAP()
	require.ErrorIs(t, err, bernoulli.ErrModeUndefined)
}

func TestMAPUndefinedOnOneSidedRuns(t *testing.T) {
	p := bernoulli.UniformPrior()
	for i := 0; i < 10; i++ {
		p.Observe(true)
	}

	_, err := p.MAP()
	require.ErrorIs(t, err, bernoulli.ErrModeUndefined)
}

func TestMAP(t *testing.T) {
	p := bernoulli.Posterior{Alpha: 8, Beta: 4}

	mode, err := p.MAP()
	require.NoError(t, err)
	assert.InDelta(t, 0.7, mode, 1e-12)
}

func TestApproxMedianStaysApproximate(t *testing.T) {
	p := bernoulli.Posterior{Alpha: 3, Beta: 2}

	// (3 - 1/3) / (5 - 2/3), not the exact Beta(3, 2) median.
	assert.InDelta(t, (3-1.0/3)/(5-2.0/3), p.ApproxMedian(), 1e-12)
}

func TestApproxMedianTracksExactMedian(t *testing.T) {
	p := bernoulli.Posterior{Alpha: 12, Beta: 8}

	exact := distuv.Beta{Alpha: 12, Beta: 8}.Quantile(0.5)

	assert.InDelta(t, exact, p.ApproxMedian(), 5e-3)
	assert.NotEqual(t, exact, p.ApproxMedian())
}

func TestCredibleIntervalBracketsMean(t *testing.T) {
	p := bernoulli.Posterior{Alpha: 51, Beta: 51}

	lo, hi := p.CredibleInterval(0.95)
	assert.Less(t, lo, p.Mean())
	assert.Greater(t, hi, p.Mean())
	assert.Greater(t, lo, 0.0)
	assert.Less(t, hi, 1.0)
}

func TestCredibleIntervalRejectsBadMass(t *testing.T) {
	p := bernoulli.UniformPrior()

	assert.Panics(t, func() { p.CredibleInterval(0) })
	assert.Panics(t, func() { p.CredibleInterval(1) })
}

func TestVariance(t *testing.T) {
	p := bernoulli.UniformPrior()

	// Beta(1, 1) has variance 1/12.
	assert.InDelta(t, 1.0/12.0, p.Variance(), 1e-12)
}
