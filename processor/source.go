package processor

import (
	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
)

// SliceSource is a zero-arity processor that replays a fixed sequence of
// in-memory batches, then forwards EndOfStream — the source-node role
// spec.md §3 assigns arity k=0. Concrete sources (a CSV reader and file
// globbing) are an explicitly out-of-scope collaborator (spec.md §1); this
// is the minimal in-memory stand-in used by queries.Demo and by tests that
// need a driving source without file I/O.
type SliceSource[T any] struct {
	NoPreProcess[T]
	batches [][]T
	meta    map[string]string
	onBatch func()
}

// NewSliceSource builds a source that emits each of batches as one data
// block carrying meta, calling onBatch (if non-nil) after each block is
// written — used by queries.Demo to drive a progress-fraction callback for
// the cardinality estimator.
func NewSliceSource[T any](batches [][]T, meta map[string]string, onBatch func()) *SliceSource[T] {
	return &SliceSource[T]{batches: batches, meta: meta, onBatch: onBatch}
}

// ProcessStream ignores inputs (a source has no input slots) and writes
// one block per batch, then EndOfStream.
func (s *SliceSource[T]) ProcessStream(_ *channel.MultiChannelReader[T], outputs *channel.MultiChannelBroadcaster[T]) {
	for _, b := range s.batches {
		outputs.Write(data.FromBlock(data.NewBlock(b, s.meta)))
		if s.onBatch != nil {
			s.onBatch()
		}
	}
	outputs.Write(data.EOF[T]())
}
