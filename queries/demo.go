// Package queries holds query assemblies: code that wires execution nodes
// together into a runnable graph. The real TPC-H assemblies (q1…q22) are
// an explicitly out-of-scope collaborator (spec.md §1); Demo is a small
// stand-in that exercises slice sources, a hash-join merger and the
// aggregator end to end, grounded in the
// shape (not the SQL) of TPC-H q5 — a fact table joined against a
// dimension table, then aggregated by a dimension column.
package queries

import (
	"fmt"
	"sync/atomic"

	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
	"github.com/arcwake/wake/graph"
	"github.com/arcwake/wake/processor"
)

// QueryFunc runs one query assembly against the dataset at scale factor
// scaleFactor rooted at datasetRoot, returning the final aggregated table.
type QueryFunc func(scaleFactor int, datasetRoot string) (*data.Table, error)

// Registry maps a query id to its assembly. Only "demo" is registered;
// resolving any other id is cmd/wake's "unknown query id" exit path.
var Registry = map[string]QueryFunc{
	"demo": Demo,
}

// Demo builds and runs: an orders source and a customers source, joined
// by a hash merger on cust_key, aggregated by region (sum of amount,
// count of rows), and drained by a terminal reader until end-of-stream.
// datasetRoot is accepted for interface parity with a real file-backed
// query but unused — Demo's sources are synthetic, scaled by
// scaleFactor.
func Demo(scaleFactor int, _ string) (*data.Table, error) {
	if scaleFactor < 1 {
		scaleFactor = 1
	}
	const partitions = 4
	const regions = 5

	orderBatches := make([][]data.Row, partitions)
	ordersPerPartition := 20 * scaleFactor
	orderKey := 0
	for p := 0; p < partitions; p++ {
		batch := make([]data.Row, 0, ordersPerPartition)
		for i := 0; i < ordersPerPartition; i++ {
			orderKey++
			batch = append(batch, data.Row{
				"order_key": orderKey,
				"cust_key":  orderKey % regions,
				"amount":    float64(orderKey % 97),
			})
		}
		orderBatches[p] = batch
	}

	custBatch := make([]data.Row, 0, regions)
	for c := 0; c < regions; c++ {
		custBatch = append(custBatch, data.Row{
			"cust_key": c,
			"region":   []string{"AMERICA", "EUROPE", "ASIA", "AFRICA", "MIDDLE EAST"}[c%5],
		})
	}

	var seenPartitions atomic.Int64
	fractionFn := func() float64 {
		return float64(seenPartitions.Load()) / float64(partitions)
	}

	orderSource := processor.NewSliceSource(orderBatches, nil, func() { seenPartitions.Add(1) })
	custSource := processor.NewSliceSource([][]data.Row{custBatch}, nil, nil)

	joinStrategy := processor.NewHashMerger(
		func(r data.Row) string { return rowKey(r["cust_key"]) },
		func(r data.Row) string { return rowKey(r["cust_key"]) },
		func(left data.Row, right *data.Row) data.Row {
			out := left.Clone()
			if right != nil {
				out["region"] = (*right)["region"]
			} else {
				out["region"] = nil
			}
			return out
		},
		processor.Inner,
	)
	join := processor.NewMerger[data.Row](joinStrategy)

	agg := processor.NewAggregator(
		[]string{"region"},
		[]data.Aggregation{
			{Func: data.AggSum, Column: "amount", Alias: "total_amount"},
			{Func: data.AggCount, Column: "order_key", Alias: "order_count"},
		},
		fractionFn,
	)

	sourceNode := graph.NewNode[data.Row](orderSource, 0)
	custNode := graph.NewNode[data.Row](custSource, 0)
	joinNode := graph.NewNode[data.Row](join, 2)
	aggNode := graph.NewNode[data.Row](agg, 1)

	joinNode.SubscribeTo(sourceNode, 0)
	joinNode.SubscribeTo(custNode, 1)
	aggNode.SubscribeTo(joinNode, 0)

	sinkWriter, sinkReader := channel.Create[data.Row]()
	aggNode.Add(sinkWriter)

	svc := graph.NewExecutionService()
	svc.Add(sourceNode)
	svc.Add(custNode)
	svc.Add(joinNode)
	svc.Add(aggNode)
	svc.Run()

	var result *data.Table
	for {
		msg := sinkReader.Read()
		if msg.IsEndOfStream() {
			break
		}
		result = &data.Table{Rows: msg.DataBlock().Records()}
	}

	if err := svc.Join(); err != nil {
		return nil, err
	}
	if result == nil {
		result = data.NewTable()
	}
	return result, nil
}

func rowKey(v any) string { return fmt.Sprintf("%v", v) }
