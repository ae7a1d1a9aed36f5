// Package bernoulli implements the Beta-Bernoulli conjugate posterior and
// its point estimates.
package bernoulli

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrModeUndefined is returned by MAP when the posterior mode is not
// defined, which happens whenever alpha <= 1 or beta <= 1.
var ErrModeUndefined = errors.New("posterior mode is undefined")

// A Posterior is a Beta-distributed belief over the bias of a coin,
// represented by its two pseudo-counts. The zero value is not valid; use
// UniformPrior to start a run.
type Posterior struct {
	Alpha float64
	Beta  float64
}

// UniformPrior returns the Beta(1, 1) prior.
func UniformPrior() Posterior {
	return Posterior{Alpha: 1, Beta: 1}
}

// Observe folds one coin flip into the posterior. A head increments alpha,
// a tail increments beta.
func (p *Posterior) Observe(head bool) {
	if head {
		p.Alpha++
	} else {
		p.Beta++
	}
}

// Observations returns the number of flips folded into the posterior since
// the uniform prior.
func (p Posterior) Observations() uint64 {
	return uint64(p.Alpha + p.Beta - 2)
}

// Mean returns the posterior mean alpha/(alpha+beta).
func (p Posterior) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// MAP returns the posterior mode (alpha-1)/(alpha+beta-2). The mode only
// exists when both pseudo-counts exceed 1. In particular, the prior itself
// has no mode, as the division would be 0/0.
func (p Posterior) MAP() (float64, error) {
	if p.Alpha <= 1 || p.Beta <= 1 {
		return 0, fmt.Errorf("%w for Beta(%v, %v)",
			ErrModeUndefined, p.Alpha, p.Beta)
	}

	return (p.Alpha - 1) / (p.Alpha + p.Beta - 2), nil
}

// ApproxMedian returns (alpha-1/3)/(alpha+beta-2/3). This is a rough
// empirical approximation of the Beta median, kept as an approximation on
// purpose. Use CredibleInterval for exact quantiles.
func (p Posterior) ApproxMedian() float64 {
	return (p.Alpha - 1.0/3.0) / (p.Alpha + p.Beta - 2.0/3.0)
}

// CredibleInterval returns the equal-tailed interval that holds the given
// posterior mass. The mass must be strictly between 0 and 1.
func (p Posterior) CredibleInterval(mass float64) (lo, hi float64) {
	if mass <= 0 || mass >= 1 {
		panic("credible interval mass must be in (0, 1)")
	}

	dist := distuv.Beta{Alpha: p.Alpha, Beta: p.Beta}
	tail := (1 - mass) / 2

	return dist.Quantile(tail), dist.Quantile(1 - tail)
}

// Variance returns the posterior variance.
func (p Posterior) Variance() float64 {
	sum := p.Alpha + p.Beta
	return p.Alpha * p.Beta / (sum * sum * (sum + 1))
}

func (p Posterior) String() string {
	return fmt.Sprintf("Beta(%v, %v)", p.Alpha, p.Beta)
}
