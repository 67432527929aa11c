package processor

import (
	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
)

// MapFunc transforms one block's records into another's. Returning a
// zero-length slice suppresses output for that block (spec.md §4.6).
type MapFunc[T any] func(records []T) []T

// SimpleMapper is the stateless 1:1 processor spec.md §4.6 describes.
// Grounded in original_source/rust/runtime/src/processor/record_processor.rs's
// SimpleMapper<T>, which wraps a single `record_map` closure over a
// DataBlock's records the same way this type wraps MapFunc.
type SimpleMapper[T any] struct {
	NoPreProcess[T]
	fn MapFunc[T]
}

func NewSimpleMapper[T any](fn MapFunc[T]) *SimpleMapper[T] {
	return &SimpleMapper[T]{fn: fn}
}

// ProcessStream reads slot 0 until EndOfStream or Signal(stop). Each data
// message is mapped through fn; a non-empty result is forwarded as a new
// block carrying the input block's metadata. EndOfStream is forwarded once
// on normal completion; Signal(stop) is forwarded once, so downstream
// nodes stop too, and the mapper exits without forwarding any further data
// or EndOfStream.
func (p *SimpleMapper[T]) ProcessStream(inputs *channel.MultiChannelReader[T], outputs *channel.MultiChannelBroadcaster[T]) {
	for {
		msg := inputs.Read(0)
		switch {
		case msg.IsSignal():
			outputs.Write(data.Stop[T]())
			return
		case msg.IsEndOfStream():
			outputs.Write(data.EOF[T]())
			return
		default:
			block := msg.DataBlock()
			out := p.fn(block.Records())
			if len(out) == 0 {
				continue
			}
			outputs.Write(data.FromBlock(data.NewBlock(out, block.Metadata())))
		}
	}
}
