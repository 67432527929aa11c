package processor

import (
	"sort"
	"sync/atomic"

	"github.com/OneOfOne/xxhash"

	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
)

// JoinKind selects whether unmatched left rows are dropped or emitted with
// a nil right side (spec.md §4.8).
type JoinKind int

const (
	Inner JoinKind = iota
	LeftOuter
)

// mergerState mirrors spec.md §4.11's merger state machine.
type mergerState int32

const (
	building mergerState = iota
	probing
	done
)

// KeyFunc extracts a join key from a record. Sorted-merge join additionally
// requires that KeyFunc's output orders consistently with the records'
// arrival order (records are assumed pre-sorted on this key, per spec.md
// §4.8).
type KeyFunc[T any] func(T) string

// CombineFunc builds one output record from a matched (or, for left-outer,
// unmatched) pair; right is nil exactly when there was no match.
type CombineFunc[T any] func(left T, right *T) T

// JoinStrategy is the pluggable half of Merger that knows how right-side
// state is built and how a left block is matched against it. SupplyRight is
// called once per right-side block during the build phase; FinalizeBuild
// runs once after the last right-side block; Merge runs once per left-side
// block during the probe phase.
type JoinStrategy[T any] interface {
	SupplyRight(records []T)
	FinalizeBuild()
	Merge(left []T) []T
}

// Merger is the two-sided processor spec.md §4.8 describes: it fully
// consumes slot 1 (right) to build state via a JoinStrategy, then streams
// slot 0 (left) through that state. Grounded in
// original_source/rust/runtime/src/processor/right_complete_processor.rs's
// RightCompleteProcessor, generalized so the merge-join and hash-join
// variants share one state machine and differ only in JoinStrategy.
type Merger[T any] struct {
	strategy JoinStrategy[T]
	state    atomic.Int32
	aborted  atomic.Bool
}

func NewMerger[T any](strategy JoinStrategy[T]) *Merger[T] {
	return &Merger[T]{strategy: strategy}
}

// needsRight reports whether the merger is still in its build phase.
func (m *Merger[T]) needsRight() bool { return mergerState(m.state.Load()) == building }

// needsLeft reports whether the merger is in its probe phase.
func (m *Merger[T]) needsLeft() bool { return mergerState(m.state.Load()) == probing }

func (m *Merger[T]) NeedsLeft() bool  { return m.needsLeft() }
func (m *Merger[T]) NeedsRight() bool { return m.needsRight() }

// PreProcess is the build phase: it reads slot 1 to completion, feeding
// every block to the strategy, then finalizes build state. Reading slot 0
// here is forbidden by the contract (spec.md §4.11) and never attempted.
// Signal(stop) mid-build aborts the merger permanently: no output is ever
// produced, not even EndOfStream (spec.md §5, §8).
func (m *Merger[T]) PreProcess(inputs *channel.MultiChannelReader[T]) {
	m.state.Store(int32(building))
	for {
		msg := inputs.Read(1)
		if msg.IsSignal() {
			m.aborted.Store(true)
			return
		}
		if msg.IsEndOfStream() {
			break
		}
		m.strategy.SupplyRight(msg.DataBlock().Records())
	}
	m.strategy.FinalizeBuild()
	m.state.Store(int32(probing))
}

// ProcessStream is the probe phase: it streams slot 0, producing one
// joined block per input block that yields at least one joined row (an
// empty join result is not forwarded), until EndOfStream, which it
// forwards once before exiting.
func (m *Merger[T]) ProcessStream(inputs *channel.MultiChannelReader[T], outputs *channel.MultiChannelBroadcaster[T]) {
	if m.aborted.Load() {
		return
	}
	for {
		msg := inputs.Read(0)
		if msg.IsSignal() {
			return
		}
		if msg.IsEndOfStream() {
			outputs.Write(data.EOF[T]())
			m.state.Store(int32(done))
			return
		}
		block := msg.DataBlock()
		joined := m.strategy.Merge(block.Records())
		if len(joined) > 0 {
			outputs.Write(data.FromBlock(data.NewBlock(joined, block.Metadata())))
		}
	}
}

// SortedMerger implements the sorted two-pointer merge-join variant of
// spec.md §4.8: inputs are assumed pre-sorted on the join key; ties on
// either side expand into a cross product over the matching equivalence
// class.
type SortedMerger[T any] struct {
	leftKey, rightKey KeyFunc[T]
	combine           CombineFunc[T]
	kind              JoinKind

	right    []T
	rightIdx int
}

func NewSortedMerger[T any](leftKey, rightKey KeyFunc[T], combine CombineFunc[T], kind JoinKind) *SortedMerger[T] {
	return &SortedMerger[T]{leftKey: leftKey, rightKey: rightKey, combine: combine, kind: kind}
}

func (j *SortedMerger[T]) SupplyRight(records []T) {
	j.right = append(j.right, records...)
}

// FinalizeBuild sorts the accumulated right-side rows by key once, since
// blocks may arrive out of global key order even though each block is
// individually sorted.
func (j *SortedMerger[T]) FinalizeBuild() {
	sort.SliceStable(j.right, func(a, b int) bool {
		return j.rightKey(j.right[a]) < j.rightKey(j.right[b])
	})
}

// Merge scans left against the sorted right-side state with a two-pointer
// advance: the right cursor only moves past keys strictly less than the
// current left key, so repeated left keys can each re-match the same tied
// run of right rows.
func (j *SortedMerger[T]) Merge(left []T) []T {
	out := make([]T, 0, len(left))
	for _, l := range left {
		lk := j.leftKey(l)
		for j.rightIdx < len(j.right) && j.rightKey(j.right[j.rightIdx]) < lk {
			j.rightIdx++
		}
		end := j.rightIdx
		for end < len(j.right) && j.rightKey(j.right[end]) == lk {
			end++
		}
		if end == j.rightIdx {
			if j.kind == LeftOuter {
				out = append(out, j.combine(l, nil))
			}
			continue
		}
		for _, r := range j.right[j.rightIdx:end] {
			r := r
			out = append(out, j.combine(l, &r))
		}
	}
	return out
}

// HashMerger implements the hash-join variant of spec.md §4.8: the right
// side is indexed by its join key into a hash table during build, and each
// left row is looked up once during probe. Keys are hashed with xxhash
// into a bucket; the original key string is retained alongside each row so
// a bucket collision cannot produce a false match.
type HashMerger[T any] struct {
	leftKey, rightKey KeyFunc[T]
	combine           CombineFunc[T]
	kind              JoinKind

	index map[uint64][]keyedRow[T]
}

type keyedRow[T any] struct {
	key string
	row T
}

func NewHashMerger[T any](leftKey, rightKey KeyFunc[T], combine CombineFunc[T], kind JoinKind) *HashMerger[T] {
	return &HashMerger[T]{
		leftKey:  leftKey,
		rightKey: rightKey,
		combine:  combine,
		kind:     kind,
		index:    make(map[uint64][]keyedRow[T]),
	}
}

// hashSeed mirrors cmn/cos's use of a fixed seed for Checksum64S so that
// bucket assignment is stable across a build phase's many SupplyRight
// calls.
const hashSeed = 0

func hashKey(key string) uint64 {
	return xxhash.Checksum64S([]byte(key), hashSeed)
}

func (j *HashMerger[T]) SupplyRight(records []T) {
	for _, r := range records {
		k := j.rightKey(r)
		h := hashKey(k)
		j.index[h] = append(j.index[h], keyedRow[T]{key: k, row: r})
	}
}

// FinalizeBuild is a no-op: the hash table is built incrementally as
// right-side blocks arrive, so there is nothing left to do once building
// ends. Present only to satisfy JoinStrategy.
func (j *HashMerger[T]) FinalizeBuild() {}

func (j *HashMerger[T]) Merge(left []T) []T {
	out := make([]T, 0, len(left))
	for _, l := range left {
		lk := j.leftKey(l)
		bucket := j.index[hashKey(lk)]
		matched := false
		for _, kr := range bucket {
			if kr.key != lk {
				continue
			}
			matched = true
			kr := kr
			out = append(out, j.combine(l, &kr.row))
		}
		if !matched && j.kind == LeftOuter {
			out = append(out, j.combine(l, nil))
		}
	}
	return out
}
