package channel

import (
	"github.com/pkg/errors"

	"github.com/arcwake/wake/cmn/debug"
	"github.com/arcwake/wake/data"
)

// MultiChannelReader is a node's ordered list of input readers, one per
// input slot. spec.md §4.1/§4.2: "joiners contract that slot 0 is left and
// slot 1 is right; this is a public guarantee." Grounded in
// original_source/deepola/wake/src/channel/channel_group.rs's
// MultiChannelReader.
type MultiChannelReader[T any] struct {
	readers []*Reader[T]
}

func NewMultiChannelReader[T any]() *MultiChannelReader[T] {
	return &MultiChannelReader[T]{}
}

// Push adds the next reader; slots are numbered in push order.
func (m *MultiChannelReader[T]) Push(r *Reader[T]) {
	m.readers = append(m.readers, r)
}

func (m *MultiChannelReader[T]) Len() int { return len(m.readers) }

// Reader returns the slot-th reader. Out-of-range slot is a protocol
// violation (spec.md §7); asserted in debug builds, panics unconditionally
// otherwise via the normal Go slice bounds check.
func (m *MultiChannelReader[T]) Reader(slot int) *Reader[T] {
	debug.Assertf(slot >= 0 && slot < len(m.readers), "slot %d out of range [0,%d)", slot, len(m.readers))
	return m.readers[slot]
}

// Read reads the next message from the slot-th input.
func (m *MultiChannelReader[T]) Read(slot int) data.Message[T] {
	return m.Reader(slot).Read()
}

// AllDrained reports whether every input slot has yielded an EndOfStream
// message at least once. A node with no input slots (a source) is never
// drained this way — sources have nothing upstream to observe end-of-stream
// on, so they go straight from Running to Stopped (spec.md §4.11).
func (m *MultiChannelReader[T]) AllDrained() bool {
	if len(m.readers) == 0 {
		return false
	}
	for _, r := range m.readers {
		if !r.Drained() {
			return false
		}
	}
	return true
}

// Clone returns a MultiChannelReader sharing the same underlying readers —
// mirroring the Rust original cloning a Vec<Rc<ChannelReader<T>>>, not
// duplicating the channels themselves.
func (m *MultiChannelReader[T]) Clone() *MultiChannelReader[T] {
	out := make([]*Reader[T], len(m.readers))
	copy(out, m.readers)
	return &MultiChannelReader[T]{readers: out}
}

// MultiChannelBroadcaster is a node's ordered list of output writers, one
// per downstream subscriber. Grounded in the same channel_group.rs file's
// MultiChannelBroadcaster.
type MultiChannelBroadcaster[T any] struct {
	writers []*Writer[T]
}

func NewMultiChannelBroadcaster[T any]() *MultiChannelBroadcaster[T] {
	return &MultiChannelBroadcaster[T]{}
}

func (m *MultiChannelBroadcaster[T]) Push(w *Writer[T]) {
	m.writers = append(m.writers, w)
}

func (m *MultiChannelBroadcaster[T]) Len() int { return len(m.writers) }

func (m *MultiChannelBroadcaster[T]) IsEmpty() bool { return len(m.writers) == 0 }

func (m *MultiChannelBroadcaster[T]) Writer(slot int) *Writer[T] {
	if slot < 0 || slot >= len(m.writers) {
		panic(errors.Errorf("writer slot %d out of range [0,%d)", slot, len(m.writers)))
	}
	return m.writers[slot]
}

// Write delivers the same logical payload to every subscriber, in order
// (spec.md §3 invariant iii / §4.2). Because Message wraps a Payload that
// only copies a *DataBlock pointer for data messages, every subscriber
// sees an identical data-block identity, not a copy.
func (m *MultiChannelBroadcaster[T]) Write(msg data.Message[T]) {
	for _, w := range m.writers {
		w.Write(msg)
	}
}

// Clone shares the same underlying writers across callers, mirroring the
// Rust original's Vec<ChannelWriter<T>> clone (each ChannelWriter clone is
// itself a cheap clone of an mpsc sender).
func (m *MultiChannelBroadcaster[T]) Clone() *MultiChannelBroadcaster[T] {
	out := make([]*Writer[T], len(m.writers))
	copy(out, m.writers)
	return &MultiChannelBroadcaster[T]{writers: out}
}
