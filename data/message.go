package data

// Message is the unit exchanged over a Channel: a Payload plus the
// conveniences spec.md §3 specifies (is_end_of_stream, is_present, and a
// typed accessor). Grounded in
// original_source/deepola/wake/src/data/message.rs's DataMessage<T>.
//
// Message wraps Payload by value: cloning a Message clones the Payload,
// which in turn only copies the *DataBlock[T] pointer for data messages,
// giving the "clone the handle, not the batch" semantics spec.md §3
// requires for broadcast fan-out.
type Message[T any] struct {
	payload Payload[T]
}

func FromBlock[T any](block *DataBlock[T]) Message[T] {
	return Message[T]{payload: DataPayload(block)}
}

func FromRecordSet[T any](records []T) Message[T] {
	return FromBlock(FromRecords(records))
}

func EOF[T any]() Message[T] {
	return Message[T]{payload: EOFPayload[T]()}
}

func Stop[T any]() Message[T] {
	return Message[T]{payload: SignalPayload[T](SignalStop)}
}

func (m Message[T]) IsEndOfStream() bool { return m.payload.IsEOF() }

func (m Message[T]) IsSignal() bool { return m.payload.IsSignal() }

// IsPresent reports whether the message carries data (spec.md §3).
func (m Message[T]) IsPresent() bool { return m.payload.IsData() }

// DataBlock returns the message's data block, panicking (fatal to node,
// per spec.md §7) if called on an EOF or signal message.
func (m Message[T]) DataBlock() *DataBlock[T] { return m.payload.Block() }

func (m Message[T]) Payload() Payload[T] { return m.payload }

func (m Message[T]) SignalValue() Signal { return m.payload.Signal() }
