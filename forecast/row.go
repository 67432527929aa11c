package forecast

import "github.com/pkg/errors"

// RowForecaster holds one CellEstimator per aggregated column and
// extrapolates all of them together to a common horizon (spec.md §4.10).
type RowForecaster struct {
	columns    []string
	newCell    func() CellEstimator
	estimators map[string]CellEstimator
}

// NewRowForecaster builds a forecaster over the named columns; newCell
// constructs a fresh CellEstimator per column (so callers can choose
// affine, power-law, or any other model uniformly).
func NewRowForecaster(columns []string, newCell func() CellEstimator) *RowForecaster {
	f := &RowForecaster{
		columns:    columns,
		newCell:    newCell,
		estimators: make(map[string]CellEstimator, len(columns)),
	}
	for _, c := range columns {
		f.estimators[c] = newCell()
	}
	return f
}

// FitTransform asserts values has one entry per column (in column order),
// feeds (now, values[i]) to each column's estimator, then asks every
// estimator for a prediction at horizon, returning one extrapolated value
// per column in the same order.
func (f *RowForecaster) FitTransform(values []float64, now, horizon float64) ([]float64, error) {
	if len(values) != len(f.columns) {
		return nil, errors.Errorf("forecast: got %d values for %d columns", len(values), len(f.columns))
	}
	for i, c := range f.columns {
		f.estimators[c].Consume(now, values[i])
	}
	out := make([]float64, len(f.columns))
	for i, c := range f.columns {
		out[i] = f.estimators[c].Produce().Predict(horizon)
	}
	return out, nil
}
