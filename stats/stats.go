package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running summary of a stream of values: one per game for
// scores, one per move for search depths, and so on.
type Statistic struct {
	totalIterations int
	last            float64
	min             float64
	max             float64
	sum             float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.sum += val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
		s.min = math.Min(s.min, val)
		s.max = math.Max(s.max, val)
	}
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

func (s *Statistic) Sum() float64 {
	return s.sum
}

// StandardError returns the standard error of the statistic.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

// ZVal is the two-tailed z-value for a confidence level given in percent,
// e.g. 1.96 for 95.
func ZVal(pct float64) float64 {
	return distuv.UnitNormal.Quantile(0.5 + pct/200)
}

// ConfidenceInterval returns the bounds of the given two-tailed confidence
// interval (in percent) around the mean.
func (s *Statistic) ConfidenceInterval(pct float64) (float64, float64) {
	margin := ZVal(pct) * s.StandardError()
	return s.Mean() - margin, s.Mean() + margin
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

// Quantiles returns the empirical quantiles of data for each p in ps. data
// is not modified.
func Quantiles(data []float64, ps ...float64) []float64 {
	qs := make([]float64, len(ps))
	if len(data) == 0 {
		return qs
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	for i, p := range ps {
		qs[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return qs
}
