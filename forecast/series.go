// Package forecast implements time-indexed value sequences and the online
// cell/row estimators the cardinality layer and aggregate scaling rely on
// (spec.md §4.10).
//
// Grounded in original_source/deepola/wake/src/forecast/mod.rs (also
// present near-identically as original_source/rust/runtime/src/forecast/mod.rs),
// which defines TimeValue and Series directly.
package forecast

// TimeValue pairs one observation's timestamp with its value.
type TimeValue struct {
	Time  float64
	Value float64
}

// Series is an ordered, append-only sequence of TimeValue observations.
type Series struct {
	values []TimeValue
}

func NewSeries() *Series { return &Series{} }

// Push appends one observation. Series is not required to be sorted by
// Time; callers that need sorted access should sort before iterating.
func (s *Series) Push(t, v float64) {
	s.values = append(s.values, TimeValue{Time: t, Value: v})
}

func (s *Series) Len() int { return len(s.values) }

// At returns the i-th observation.
func (s *Series) At(i int) TimeValue { return s.values[i] }

// Values returns the series' observations in insertion order. The
// returned slice must not be mutated by the caller.
func (s *Series) Values() []TimeValue { return s.values }
