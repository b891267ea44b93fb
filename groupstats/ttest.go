package groupstats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerate is returned when a t statistic cannot be formed from the
// data: too few values, or no spread and no difference.
var ErrDegenerate = errors.New("degenerate t-test")

// StudentT runs a two-sided, two-sample Student t-test assuming equal
// variances. It returns the t statistic, the degrees of freedom and the
// p-value.
func StudentT(x, y []float64) (t, df, p float64, err error) {
	n1, n2 := float64(len(x)), float64(len(y))
	df = n1 + n2 - 2
	if len(x) == 0 || len(y) == 0 || df < 1 {
		return math.NaN(), df, math.NaN(), ErrDegenerate
	}

	m1, ss1 := meanAndSumSquares(x)
	m2, ss2 := meanAndSumSquares(y)

	pooled := (ss1 + ss2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	diff := m1 - m2

	if se == 0 {
		if diff == 0 {
			return math.NaN(), df, math.NaN(), ErrDegenerate
		}
		return math.Copysign(math.Inf(1), diff), df, 0, nil
	}

	t = diff / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}

	return t, df, p, nil
}

// meanAndSumSquares returns the mean and the sum of squared deviations from
// it. A single value has no spread.
func meanAndSumSquares(x []float64) (mean, ss float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	mean, variance := stat.MeanVariance(x, nil)
	return mean, variance * float64(len(x)-1)
}
