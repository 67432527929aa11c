// Package graph implements the execution node and execution service: node
// lifecycle, subscription wiring, and the worker-per-node scheduler.
//
// Grounded in original_source/rust/runtime/src/graph/{node_base,
// exec_service}.rs, generalized to the later pre_process/process_stream
// processor contract deepola/wake/src/processor/stream_processor.rs
// specifies (spec.md §4.5).
package graph

import (
	"sync/atomic"
	"time"

	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/cmn/cos"
	"github.com/arcwake/wake/processor"
)

// State is a node worker's lifecycle state (spec.md §4.11).
type State int32

const (
	NotStarted State = iota
	Running
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Draining:
		return "Draining"
	case Stopped:
		return "Stopped"
	default:
		return "NotStarted"
	}
}

// Subscribable is the contract a downstream node uses to wire itself as a
// subscriber of an upstream node's output broadcaster (spec.md §4.3).
type Subscribable[T any] interface {
	Add(w *channel.Writer[T])
}

// ExecutionNode is a named operator instance: it owns a stream processor,
// an input multi-reader, an output multi-broadcaster, and a self-writer
// per input slot so the orchestrator (or a test) can inject boundary
// messages directly. Grounded in node_base.rs + exec_service.rs's node
// construction, generalized to arbitrary arity k (spec.md §4.3).
type ExecutionNode[T any] struct {
	id   string
	proc processor.StreamProcessor[T]

	inputs      *channel.MultiChannelReader[T]
	selfWriters []*channel.Writer[T]
	outputs     *channel.MultiChannelBroadcaster[T]

	state atomic.Int32
}

// NewNode constructs a node with k input slots, each backed by a fresh
// channel; proc owns the node's processing logic. k is fixed for the
// node's lifetime (spec.md §4.3: source=0, map/filter/accumulator=1,
// joiner/merger=2).
func NewNode[T any](proc processor.StreamProcessor[T], k int) *ExecutionNode[T] {
	n := &ExecutionNode[T]{
		id:      cos.GenID(),
		proc:    proc,
		inputs:  channel.NewMultiChannelReader[T](),
		outputs: channel.NewMultiChannelBroadcaster[T](),
	}
	for i := 0; i < k; i++ {
		w, r := channel.Create[T]()
		n.inputs.Push(r)
		n.selfWriters = append(n.selfWriters, w)
	}
	return n
}

func (n *ExecutionNode[T]) ID() string { return n.id }

func (n *ExecutionNode[T]) State() State { return State(n.state.Load()) }

func (n *ExecutionNode[T]) setState(s State) { n.state.Store(int32(s)) }

// SelfWriter returns the writer for input slot i, letting orchestration
// code or tests inject messages (such as EndOfStream or Signal(stop))
// directly onto that slot (spec.md §4.3). A source node has no input
// slots and therefore no self-writers.
func (n *ExecutionNode[T]) SelfWriter(slot int) *channel.Writer[T] {
	return n.selfWriters[slot]
}

// Add registers a new output subscriber writer — what Subscribable exposes
// so a downstream node can wire itself onto this node's broadcaster.
func (n *ExecutionNode[T]) Add(w *channel.Writer[T]) {
	n.outputs.Push(w)
}

// SubscribeTo wires n as a downstream subscriber of upstream on the given
// input slot: upstream's broadcaster gets a new writer that is a clone of
// the writer already targeting n's slot-th channel. Subscription is
// directional and creates no back-pointer from upstream to n (spec.md
// §4.3; Design Notes §9 on avoiding back-references).
func (n *ExecutionNode[T]) SubscribeTo(upstream Subscribable[T], slot int) {
	upstream.Add(n.selfWriters[slot].Clone())
}

// drainPollInterval is how often Run's watcher goroutine checks whether
// every input slot has observed EndOfStream. Grounded in
// original_source/rust/runtime/src/graph/node_base.rs's
// NODE_SLEEP_MICRO_SECONDS busy-poll constant, the same pattern used here
// to detect the Running->Draining edge without the StreamProcessor
// contract itself reporting it.
const drainPollInterval = 50 * time.Microsecond

// Run executes the node's stream processor to completion: pre_process
// against a clone of the input multi-reader, then process_stream against
// the input multi-reader and a clone of the output multi-broadcaster
// (spec.md §4.3). The processor is solely responsible for propagating
// EndOfStream; Run does not inject one itself.
//
// ProcessStream runs on a dedicated goroutine so Run can concurrently
// watch n.inputs for every required slot reporting EndOfStream and move
// the node into Draining (spec.md §4.11) for whatever tail work
// ProcessStream still has left — flushing a final accumulated or scaled
// block, forwarding EndOfStream downstream — before it returns and Run
// moves the node to Stopped. A node aborted by Signal(stop) never sees
// every slot drained, so it goes Running->Stopped directly, skipping
// Draining, which matches spec.md §5/§8's abort semantics.
func (n *ExecutionNode[T]) Run() {
	n.setState(Running)
	nodesRunning.Inc()
	start := time.Now()
	defer func() {
		nodeRunDuration.WithLabelValues(n.id).Observe(time.Since(start).Seconds())
		nodesRunning.Dec()
	}()

	n.proc.PreProcess(n.inputs.Clone())

	streamDone := make(chan struct{})
	var panicked any
	go func() {
		defer close(streamDone)
		defer func() { panicked = recover() }()
		n.proc.ProcessStream(n.inputs, n.outputs.Clone())
	}()

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-streamDone:
			n.setState(Stopped)
			if panicked != nil {
				// Re-panic on Run's own goroutine so ExecutionService's
				// per-node recover() still sees it, same as before
				// ProcessStream moved onto its own goroutine.
				panic(panicked)
			}
			return
		case <-ticker.C:
			if n.State() == Running && n.inputs.AllDrained() {
				n.setState(Draining)
			}
		}
	}
}
