// Package infer implements the progressive cardinality estimator: an
// online least-squares fit of log per-group cardinality against log
// observed fraction, used to scale partial aggregates to whole-dataset
// projections (spec.md §4.9).
//
// Grounded in
// original_source/deepola/wake/src/inference/count.rs's PowerLawEstimator.
package infer

import "math"

// PowerCardinalityEstimator maintains a running affine least-squares fit of
// (log fraction, log mean-group-count) observations; the fit's slope is
// the power p used to scale a partial count to a whole-dataset estimate.
type PowerCardinalityEstimator struct {
	p float64

	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumXY float64
}

// NewPowerCardinalityEstimator returns an estimator with p=0 (identity
// scaling) until at least two observations at distinct fractions have
// been folded in.
func NewPowerCardinalityEstimator() *PowerCardinalityEstimator {
	return &PowerCardinalityEstimator{}
}

// WithPower returns an estimator pinned at a fixed exponent p, bypassing
// online fitting — useful for tests and for seeding a known power law.
func WithPower(p float64) *PowerCardinalityEstimator {
	return &PowerCardinalityEstimator{p: clampPower(p)}
}

func clampPower(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// UpdatePower folds one more (fraction, mean group count) observation into
// the running least-squares fit and refreshes p. totalCount is the number
// of records observed so far; groupCount is the number of distinct groups;
// fraction is the caller-supplied progress fraction in (0,1]. Fractions
// outside (0,1] or a zero groupCount are ignored, since log is undefined
// there.
func (e *PowerCardinalityEstimator) UpdatePower(totalCount, groupCount, fraction float64) {
	if fraction <= 0 || fraction > 1 || groupCount <= 0 || totalCount <= 0 {
		return
	}
	meanCount := totalCount / groupCount
	if meanCount <= 0 {
		return
	}
	x := math.Log(fraction)
	y := math.Log(meanCount)

	e.n++
	e.sumX += x
	e.sumY += y
	e.sumXX += x * x
	e.sumXY += x * y

	if e.n < 2 {
		return
	}
	denom := e.n*e.sumXX - e.sumX*e.sumX
	if denom == 0 {
		return
	}
	slope := (e.n*e.sumXY - e.sumX*e.sumY) / denom
	e.p = clampPower(slope)
}

// Power returns the estimator's current fitted exponent, clamped to
// [0,1].
func (e *PowerCardinalityEstimator) Power() float64 { return e.p }

// Estimate scales an observed partial count to a whole-dataset projection:
// estimate(c, 1.0) == c; with p=0 or fraction<=0, estimation is the
// identity (spec.md §4.9, §8).
func (e *PowerCardinalityEstimator) Estimate(count, fraction float64) float64 {
	if e.p == 0 || fraction <= 0 || fraction >= 1 {
		return count
	}
	return math.Round(count / math.Pow(fraction, e.p))
}

// AggKind classifies an aggregate column for the purpose of the scaling
// policy ScaleAggregate applies. spec.md §9 leaves the exact policy an
// open question; DESIGN.md resolves it as: count-like aggregates always
// scale, sum-like aggregates scale only on a cumulative (append-kind)
// block, mean-like aggregates never scale.
type AggKind int

const (
	CountLike AggKind = iota
	SumLike
	MeanLike
)

// ScaleAggregate applies the resolved aggregate-scaling policy to one
// aggregate value.
func (e *PowerCardinalityEstimator) ScaleAggregate(kind AggKind, isAppendBlock bool, value, fraction float64) float64 {
	switch kind {
	case CountLike:
		return e.Estimate(value, fraction)
	case SumLike:
		if isAppendBlock {
			return e.Estimate(value, fraction)
		}
		return value
	default: // MeanLike
		return value
	}
}
