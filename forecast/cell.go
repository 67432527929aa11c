package forecast

// Predictor extrapolates a fitted model to an arbitrary time.
type Predictor interface {
	Predict(t float64) float64
}

// CellEstimator abstracts the model behind one forecasted column: Consume
// folds in one more (time, value) observation; Produce snapshots the
// current fit into a Predictor (spec.md §4.10).
type CellEstimator interface {
	Consume(t, v float64)
	Produce() Predictor
}

// LeastSquareAffineEstimator is a CellEstimator that incrementally fits
// value = a + b*t by ordinary least squares, without retaining the
// observation history — each Consume call updates five running sums.
//
// original_source/deepola/wake/src/inference/count.rs imports this type
// by name (`crate::forecast::cell::{CellConsumer, LeastSquareAffineEstimator}`),
// but forecast/cell.rs itself was never retrieved into the pack, so the
// update equations here are derived from the incremental-least-squares
// invariants spec.md §4.9/§4.10 state, not copied from unseen source.
type LeastSquareAffineEstimator struct {
	n     float64
	sumT  float64
	sumV  float64
	sumTT float64
	sumTV float64
}

func NewLeastSquareAffineEstimator() *LeastSquareAffineEstimator {
	return &LeastSquareAffineEstimator{}
}

func (e *LeastSquareAffineEstimator) Consume(t, v float64) {
	e.n++
	e.sumT += t
	e.sumV += v
	e.sumTT += t * t
	e.sumTV += t * v
}

// Produce fits the current running sums into an affine predictor. With
// fewer than two observations the fit degenerates to a constant predictor
// at the mean observed value (zero if nothing was ever consumed).
func (e *LeastSquareAffineEstimator) Produce() Predictor {
	if e.n == 0 {
		return affinePredictor{a: 0, b: 0}
	}
	if e.n < 2 {
		return affinePredictor{a: e.sumV / e.n, b: 0}
	}
	denom := e.n*e.sumTT - e.sumT*e.sumT
	if denom == 0 {
		return affinePredictor{a: e.sumV / e.n, b: 0}
	}
	b := (e.n*e.sumTV - e.sumT*e.sumV) / denom
	a := (e.sumV - b*e.sumT) / e.n
	return affinePredictor{a: a, b: b}
}

type affinePredictor struct {
	a, b float64
}

func (p affinePredictor) Predict(t float64) float64 { return p.a + p.b*t }
