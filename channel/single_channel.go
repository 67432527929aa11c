// Package channel implements the bounded, single-reader/multi-writer FIFO
// that connects execution nodes, and the per-node aggregates over those
// channels (MultiChannelReader, MultiChannelBroadcaster).
//
// Grounded in original_source/rust/runtime/src/channel/single_channel.rs
// (Channel::create, ChannelReader, ChannelWriter) and
// original_source/deepola/wake/src/channel/channel_group.rs
// (MultiChannelReader, MultiChannelBroadcaster).
package channel

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/arcwake/wake/cmn/cos"
	"github.com/arcwake/wake/data"
)

// Capacity is the bounded channel size spec.md §3 specifies: 1,000,000
// messages by default. Writes block when full; reads block when empty.
// Exposed as a var (not a const) so cmd/wake's --channel-capacity flag can
// override it before any node is constructed; changing it after any
// channel.Create call has no effect on already-created channels.
var Capacity = 1_000_000

// Channel is a factory for a connected (writer, reader) pair sharing a
// fresh random id, mirroring the Rust original's Channel::create.
type Channel[T any] struct{}

// Create returns a writer and the channel's unique reader. Per spec.md
// §4.1 "the reader is unique per channel; writers may be cloned freely" —
// Writer.Clone returns an independent handle onto the same underlying Go
// channel.
func Create[T any]() (*Writer[T], *Reader[T]) {
	id := cos.GenID()
	ch := make(chan data.Message[T], Capacity)
	return &Writer[T]{id: id, ch: ch}, &Reader[T]{id: id, ch: ch}
}

// Writer sends messages to a Channel. Safe to share across goroutines and
// to Clone; every clone sends to the same underlying channel.
type Writer[T any] struct {
	id string
	ch chan data.Message[T]
}

func (w *Writer[T]) ID() string { return w.id }

// Write blocks if the channel is at capacity. A send on a channel whose
// reader has gone away (closed with no one left to drain it) cannot
// happen in this engine's topology — readers are never closed while a
// writer might still send — so Write has no failure path to report;
// programmer errors here surface as the usual Go "send on closed channel"
// panic, which callers should never trigger.
func (w *Writer[T]) Write(m data.Message[T]) {
	w.ch <- m
}

func (w *Writer[T]) Clone() *Writer[T] {
	return &Writer[T]{id: w.id, ch: w.ch}
}

// Reader receives messages from a Channel. There is exactly one Reader per
// Channel (spec.md §4.1): unlike Writer, Reader has no Clone — the single
// *Reader[T] pointer is shared wherever it needs to be passed around (e.g.
// inside a MultiChannelReader), the same way the Rust original shares one
// Rc<ChannelReader<T>>.
type Reader[T any] struct {
	id   string
	ch   chan data.Message[T]
	done atomic.Bool
}

func (r *Reader[T]) ID() string { return r.id }

// Drained reports whether this slot has ever yielded an EndOfStream
// message — used by MultiChannelReader.AllDrained to detect the node
// worker's Running->Draining transition (spec.md §4.11).
func (r *Reader[T]) Drained() bool { return r.done.Load() }

// Read blocks until a message is available. If the underlying Go channel
// has been closed and the buffer has drained without an EndOfStream
// having been sent, this is spec.md §7's "Upstream closed unexpectedly" —
// fatal to the node — reported as a panic carrying the channel id, since
// there is no sentinel value left to return. Nothing in this package
// closes the channel, and dropping every Writer does not close it, so a
// Read on a channel whose writers are gone blocks indefinitely.
func (r *Reader[T]) Read() data.Message[T] {
	m, ok := <-r.ch
	if !ok {
		panic(errors.Wrapf(errUpstreamClosed, "channel %s", r.id))
	}
	if m.IsEndOfStream() {
		r.done.Store(true)
	}
	return m
}

// TryRead performs a non-blocking read, returning ok=false if the channel
// is currently empty.
func (r *Reader[T]) TryRead() (m data.Message[T], ok bool) {
	select {
	case m, ok = <-r.ch:
		if !ok {
			panic(errors.Wrapf(errUpstreamClosed, "channel %s", r.id))
		}
		if m.IsEndOfStream() {
			r.done.Store(true)
		}
		return m, true
	default:
		return m, false
	}
}

var errUpstreamClosed = errors.New("upstream closed unexpectedly without end-of-stream")
