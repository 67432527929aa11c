package processor

import (
	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
)

// MergeStrategy selects how Accumulator folds an incoming block into its
// running state S (spec.md §4.7).
type MergeStrategy int

const (
	// KeepLast replaces S with each incoming block's records.
	KeepLast MergeStrategy = iota
	// VStack appends each incoming block's records onto S.
	VStack
)

// Accumulator is the stateful 1:n fold processor spec.md §4.7 describes.
// Grounded in
// original_source/deepola/wake/src/polars_operations/accumulator/{base,merge_accumulator}.rs,
// generalized over the merge strategy instead of hard-coding the
// merge_accumulator's append-only replace semantics.
type Accumulator[T any] struct {
	NoPreProcess[T]
	strategy MergeStrategy
	state    []T
	meta     map[string]string
}

func NewAccumulator[T any](strategy MergeStrategy) *Accumulator[T] {
	return &Accumulator[T]{strategy: strategy}
}

// accumulate folds block's records into a.state per a.strategy. No output
// is produced per call (spec.md §4.7).
func (a *Accumulator[T]) accumulate(block *data.DataBlock[T]) {
	switch a.strategy {
	case VStack:
		a.state = append(a.state, block.Records()...)
	default: // KeepLast
		a.state = append([]T(nil), block.Records()...)
	}
	a.meta = block.Metadata()
}

// ProcessStream reads slot 0 until EndOfStream or Signal(stop), folding
// every data block into internal state via accumulate. At EndOfStream it
// emits exactly one output block — a compacted snapshot of state, tagged
// `dm` because downstream readers must replace rather than append — then
// forwards EndOfStream and exits. Signal(stop) exits without emitting.
func (a *Accumulator[T]) ProcessStream(inputs *channel.MultiChannelReader[T], outputs *channel.MultiChannelBroadcaster[T]) {
	for {
		msg := inputs.Read(0)
		switch {
		case msg.IsSignal():
			return
		case msg.IsEndOfStream():
			snapshot := data.NewBlock(a.state, a.meta).WithKind(data.BlockModification)
			outputs.Write(data.FromBlock(snapshot))
			outputs.Write(data.EOF[T]())
			return
		default:
			a.accumulate(msg.DataBlock())
		}
	}
}
