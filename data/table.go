package data

import (
	"fmt"
	"sort"
)

// Row is a single record of named cells. spec.md §6 declares the concrete
// tabular value type an opaque collaborator ("assumed to be an opaque,
// cheaply-cloneable tabular block supporting column projection, predicate
// filtering, group-by aggregation, sort, and vertical stack"); Row/Table
// are a minimal concrete stand-in so processor and its tests have
// something to operate on.
type Row map[string]any

func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Table is an ordered list of Rows. It supports exactly the operations
// spec.md §6 asks of the opaque collaborator type.
type Table struct {
	Rows []Row
}

func NewTable(rows ...Row) *Table {
	return &Table{Rows: rows}
}

func (t *Table) Len() int { return len(t.Rows) }

// Project returns a new Table keeping only the named columns of each row.
func (t *Table) Project(columns ...string) *Table {
	out := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			nr[c] = r[c]
		}
		out[i] = nr
	}
	return &Table{Rows: out}
}

// Filter returns the rows for which pred returns true, preserving order.
func (t *Table) Filter(pred func(Row) bool) *Table {
	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return &Table{Rows: out}
}

// VStack appends other's rows after t's rows, returning a new Table.
// processor.Aggregator uses it to fold each incoming batch onto the rows
// it has already seen.
func (t *Table) VStack(other *Table) *Table {
	out := make([]Row, 0, len(t.Rows)+len(other.Rows))
	out = append(out, t.Rows...)
	out = append(out, other.Rows...)
	return &Table{Rows: out}
}

// SortBy returns a new Table sorted ascending on the given key columns,
// using a stable sort so ties preserve input order.
func (t *Table) SortBy(columns ...string) *Table {
	out := make([]Row, len(t.Rows))
	copy(out, t.Rows)
	sort.SliceStable(out, func(i, j int) bool {
		return compareRows(out[i], out[j], columns) < 0
	})
	return &Table{Rows: out}
}

func compareRows(a, b Row, columns []string) int {
	for _, c := range columns {
		av, bv := fmt.Sprint(a[c]), fmt.Sprint(b[c])
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// AggFunc names one of the aggregation operations spec.md §6 recognizes.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggCount AggFunc = "count"
	AggMean  AggFunc = "mean"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// Aggregation names one (func, column) pair to compute per group; the
// result lands in a column named alias.
type Aggregation struct {
	Func   AggFunc
	Column string
	Alias  string
}

// GroupByAggregate groups t's rows by the given key columns and computes
// each requested Aggregation per group, returning one output row per
// distinct group, in first-seen group order (so repeated calls over a
// growing input are deterministic).
func (t *Table) GroupByAggregate(keys []string, aggs []Aggregation) *Table {
	type group struct {
		key  Row
		sums map[string]float64
		cnts map[string]int
		mins map[string]float64
		maxs map[string]float64
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	groupKey := func(r Row) string {
		s := ""
		for _, k := range keys {
			s += fmt.Sprintf("\x1f%v", r[k])
		}
		return s
	}

	for _, r := range t.Rows {
		gk := groupKey(r)
		g, ok := groups[gk]
		if !ok {
			key := make(Row, len(keys))
			for _, k := range keys {
				key[k] = r[k]
			}
			g = &group{
				key:  key,
				sums: map[string]float64{},
				cnts: map[string]int{},
				mins: map[string]float64{},
				maxs: map[string]float64{},
			}
			groups[gk] = g
			order = append(order, gk)
		}
		for _, a := range aggs {
			v := toFloat(r[a.Column])
			g.sums[a.Alias] += v
			g.cnts[a.Alias]++
			if _, seen := g.mins[a.Alias]; !seen || v < g.mins[a.Alias] {
				g.mins[a.Alias] = v
			}
			if _, seen := g.maxs[a.Alias]; !seen || v > g.maxs[a.Alias] {
				g.maxs[a.Alias] = v
			}
		}
	}

	out := make([]Row, 0, len(order))
	for _, gk := range order {
		g := groups[gk]
		row := g.key.Clone()
		for _, a := range aggs {
			switch a.Func {
			case AggSum:
				row[a.Alias] = g.sums[a.Alias]
			case AggCount:
				row[a.Alias] = g.cnts[a.Alias]
			case AggMean:
				if g.cnts[a.Alias] > 0 {
					row[a.Alias] = g.sums[a.Alias] / float64(g.cnts[a.Alias])
				} else {
					row[a.Alias] = 0.0
				}
			case AggMin:
				row[a.Alias] = g.mins[a.Alias]
			case AggMax:
				row[a.Alias] = g.maxs[a.Alias]
			}
		}
		out = append(out, row)
	}
	return &Table{Rows: out}
}

// toFloat coerces a cell to float64 for aggregation arithmetic. An
// unrecognized cell type is spec.md §7's "Operator math failure: type
// mismatch in arithmetic between cells of incompatible kinds" — fatal to
// the node, mirroring original_source/rust/runtime/src/data/arithmetic.rs
// panicking ("ADD not implemented") on an incompatible DataCell pair rather
// than silently coercing to zero.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		panic(fmt.Sprintf("data: cannot aggregate non-numeric cell of type %T", v))
	}
}
