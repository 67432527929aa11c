// Package processor defines the stream processor contract every execution
// node runs, and the concrete operators the engine ships: a row mapper, an
// accumulator, sorted-merge and hash two-sided joiners, and an aggregator.
//
// Grounded in original_source/deepola/wake/src/processor/stream_processor.rs
// (the PreProcess/ProcessStream contract), with the concrete operators
// individually grounded in mapper.go, accumulator.go, merger.go, and
// aggregator.go's own doc comments.
package processor

import "github.com/arcwake/wake/channel"

// StreamProcessor is the contract every execution node's worker loop runs
// (spec.md §4.5). PreProcess runs once before the main loop and may be a
// no-op; ProcessStream owns the node's entire main loop, including reading
// from inputs, writing to outputs, and propagating EndOfStream/Stop — the
// node itself injects neither.
//
// Implementations embed NoPreProcess to satisfy PreProcess when they have
// no setup step, mirroring how the Rust trait gives pre_process a default
// empty-body implementation.
type StreamProcessor[T any] interface {
	PreProcess(inputs *channel.MultiChannelReader[T])
	ProcessStream(inputs *channel.MultiChannelReader[T], outputs *channel.MultiChannelBroadcaster[T])
}

// NoPreProcess satisfies StreamProcessor's PreProcess method with a no-op,
// for processors that need no setup step before ProcessStream runs. Embed
// it as NoPreProcess[T] with the same T the enclosing processor uses.
type NoPreProcess[T any] struct{}

func (NoPreProcess[T]) PreProcess(*channel.MultiChannelReader[T]) {}
