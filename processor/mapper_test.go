package processor_test

import (
	"reflect"
	"testing"

	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
	"github.com/arcwake/wake/processor"
)

func runMapper[T any](t *testing.T, m *processor.SimpleMapper[T], in []data.Message[T]) []data.Message[T] {
	t.Helper()
	inputs := channel.NewMultiChannelReader[T]()
	w, r := channel.Create[T]()
	inputs.Push(r)
	for _, msg := range in {
		w.Write(msg)
	}

	outputs := channel.NewMultiChannelBroadcaster[T]()
	ow, or := channel.Create[T]()
	outputs.Push(ow)

	done := make(chan struct{})
	go func() {
		m.ProcessStream(inputs, outputs)
		close(done)
	}()

	var out []data.Message[T]
	for {
		msg := or.Read()
		out = append(out, msg)
		if msg.IsEndOfStream() {
			break
		}
	}
	<-done
	return out
}

func TestSimpleMapperDoublesEachRecord(t *testing.T) {
	double := func(records []int) []int {
		out := make([]int, len(records))
		for i, r := range records {
			out[i] = r * 2
		}
		return out
	}
	m := processor.NewSimpleMapper(double)

	in := []data.Message[int]{
		data.FromRecordSet([]int{1, 2, 3}),
		data.EOF[int](),
	}
	got := runMapper(t, m, in)

	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if want := []int{2, 4, 6}; !reflect.DeepEqual(got[0].DataBlock().Records(), want) {
		t.Errorf("records = %v, want %v", got[0].DataBlock().Records(), want)
	}
	if !got[1].IsEndOfStream() {
		t.Errorf("second message should be EndOfStream")
	}
}

func TestSimpleMapperSuppressesEmptyResult(t *testing.T) {
	dropAll := func([]int) []int { return nil }
	m := processor.NewSimpleMapper(dropAll)

	in := []data.Message[int]{
		data.FromRecordSet([]int{1, 2, 3}),
		data.EOF[int](),
	}
	got := runMapper(t, m, in)

	if len(got) != 1 || !got[0].IsEndOfStream() {
		t.Fatalf("expected only EndOfStream, got %v", got)
	}
}

func TestSimpleMapperIdentityYieldsSameSequence(t *testing.T) {
	identity := func(r []int) []int { return r }
	m := processor.NewSimpleMapper(identity)

	in := []data.Message[int]{
		data.FromRecordSet([]int{1, 2, 3}),
		data.FromRecordSet([]int{4, 5}),
		data.EOF[int](),
	}
	got := runMapper(t, m, in)

	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if !reflect.DeepEqual(got[0].DataBlock().Records(), []int{1, 2, 3}) {
		t.Errorf("first block mismatch: %v", got[0].DataBlock().Records())
	}
	if !reflect.DeepEqual(got[1].DataBlock().Records(), []int{4, 5}) {
		t.Errorf("second block mismatch: %v", got[1].DataBlock().Records())
	}
}
