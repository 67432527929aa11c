package processor

import (
	"fmt"

	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
	"github.com/arcwake/wake/infer"
)

// Aggregator is the domain-stack accumulator specialization: it group-by
// aggregates each incoming batch of rows by key columns, folds the
// running per-group state across batches, and at end-of-stream scales
// count-like and append-kind sum-like aggregates to a whole-dataset
// projection via a PowerCardinalityEstimator, leaving mean-like
// aggregates unscaled.
//
// Grounded in
// original_source/deepola/wake/src/inference/count.rs and the polars
// accumulator family it backs, generalized from polars expressions to
// data.Table.GroupByAggregate.
type Aggregator struct {
	NoPreProcess[data.Row]
	keys       []string
	aggs       []data.Aggregation
	estimator  *infer.PowerCardinalityEstimator
	fractionFn func() float64

	raw  *data.Table
	meta map[string]string
}

// NewAggregator builds an Aggregator grouping by keys and computing aggs
// per group. fractionFn reports the current progress fraction in (0,1]
// each time a batch is folded in — typically backed by a partition
// counter the source node updates, since the aggregator itself has no
// notion of total dataset size.
func NewAggregator(keys []string, aggs []data.Aggregation, fractionFn func() float64) *Aggregator {
	return &Aggregator{
		keys:       keys,
		aggs:       aggs,
		estimator:  infer.NewPowerCardinalityEstimator(),
		fractionFn: fractionFn,
		raw:        data.NewTable(),
	}
}

// ProcessStream reads slot 0 until EndOfStream or Signal(stop). Each data
// block's rows are vstacked onto running raw state and re-aggregated, so
// the aggregator always holds the group-by result over every row seen so
// far; UpdatePower is called with the observed total/group counts and the
// current fraction after every batch. At EndOfStream the final grouped
// table is scaled per-aggregate and emitted as a single `dm` block.
func (a *Aggregator) ProcessStream(inputs *channel.MultiChannelReader[data.Row], outputs *channel.MultiChannelBroadcaster[data.Row]) {
	for {
		msg := inputs.Read(0)
		switch {
		case msg.IsSignal():
			return
		case msg.IsEndOfStream():
			grouped := a.raw.GroupByAggregate(a.keys, a.aggs)
			scaled := a.scale(grouped)
			outputs.Write(data.FromBlock(data.NewBlock(scaled.Rows, a.meta).WithKind(data.BlockModification)))
			outputs.Write(data.EOF[data.Row]())
			return
		default:
			block := msg.DataBlock()
			a.meta = block.Metadata()
			a.raw = a.raw.VStack(data.NewTable(block.Records()...))
			grouped := a.raw.GroupByAggregate(a.keys, a.aggs)
			if fraction := a.fractionFn(); fraction > 0 {
				a.estimator.UpdatePower(float64(a.raw.Len()), float64(grouped.Len()), fraction)
			}
		}
	}
}

// scale applies infer.ScaleAggregate's resolved policy to every aggregate
// column: count-like always scales, sum-like scales only when the input
// block was append-kind (`da`), mean/min/max never scale.
func (a *Aggregator) scale(grouped *data.Table) *data.Table {
	fraction := a.fractionFn()
	isAppend := a.meta[data.MetaType] != string(data.BlockModification)
	out := make([]data.Row, len(grouped.Rows))
	for i, row := range grouped.Rows {
		nr := row.Clone()
		for _, agg := range a.aggs {
			kind, scalable := aggKind(agg.Func)
			if !scalable {
				continue
			}
			nr[agg.Alias] = a.estimator.ScaleAggregate(kind, isAppend, toFloat64(nr[agg.Alias]), fraction)
		}
		out[i] = nr
	}
	return &data.Table{Rows: out}
}

// aggKind maps a Table aggregation function to the infer package's scaling
// classification. Min/max are excluded entirely: scaling a minimum or
// maximum toward a "whole dataset" value has no sound interpretation.
func aggKind(fn data.AggFunc) (kind infer.AggKind, scalable bool) {
	switch fn {
	case data.AggCount:
		return infer.CountLike, true
	case data.AggSum:
		return infer.SumLike, true
	case data.AggMean:
		return infer.MeanLike, true
	default:
		return infer.MeanLike, false
	}
}

// toFloat64 coerces an already-aggregated cell to float64 for the scaling
// arithmetic in scale. As in data.Table's toFloat, an unrecognized type is
// spec.md §7's operator math failure — fatal to the node, not a silent
// zero (original_source/rust/runtime/src/data/arithmetic.rs panics on the
// same class of mismatch).
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("processor: cannot scale non-numeric aggregate cell of type %T", v))
	}
}
