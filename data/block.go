package data

// BlockKind tags a DataBlock as a cumulative append stream (Append) or a
// differential/replacement result (Modification). spec.md §3 reserves the
// metadata key MetaType for this tag; §3 invariant (iv) requires every
// operator to compute its output's kind deterministically from its
// inputs' kinds.
type BlockKind string

const (
	BlockAppend       BlockKind = "da"
	BlockModification BlockKind = "dm"
)

// Reserved metadata keys (spec.md §6).
const (
	MetaSchema = "reserved.schema"
	MetaType   = "reserved.type"
)

// DataBlock is an immutable-after-construction carrier of a batch of
// records plus metadata. Grounded in
// original_source/rust/runtime/src/data/payload.rs's DataBlock<T>, which
// pairs a Vec<T> with a HashMap<String,String> of metadata; metadata here
// is likewise a flat string-keyed map, with MetaSchema/MetaType reserved.
//
// A *DataBlock[T] is the thing that gets shared (never copied) across
// Payload clones: broadcasting to N subscribers clones N pointers, not N
// blocks, matching §3's "cheaply clonable" requirement without needing an
// explicit refcount — Go's garbage collector keeps the block alive for as
// long as any reader, any downstream accumulator, or any in-flight channel
// slot holds a reference to it.
type DataBlock[T any] struct {
	records  []T
	metadata map[string]string
}

// NewBlock constructs a DataBlock from records and metadata. The metadata
// map is copied so that callers cannot mutate it after publication (§3:
// "Metadata is read-only once a block is published").
func NewBlock[T any](records []T, metadata map[string]string) *DataBlock[T] {
	m := make(map[string]string, len(metadata))
	for k, v := range metadata {
		m[k] = v
	}
	return &DataBlock[T]{records: records, metadata: m}
}

// FromRecords builds a DataBlock with no metadata; convenience for tests
// and simple processors, mirroring DataBlock::from_records in the Rust
// original.
func FromRecords[T any](records []T) *DataBlock[T] {
	return NewBlock(records, nil)
}

func (b *DataBlock[T]) Records() []T { return b.records }

func (b *DataBlock[T]) Len() int { return len(b.records) }

// Metadata returns the block's metadata. The returned map must not be
// mutated by the caller; it is the block's own immutable-after-publication
// map, not a copy, to avoid an allocation on every read.
func (b *DataBlock[T]) Metadata() map[string]string { return b.metadata }

func (b *DataBlock[T]) Meta(key string) (string, bool) {
	v, ok := b.metadata[key]
	return v, ok
}

func (b *DataBlock[T]) Kind() BlockKind {
	if v, ok := b.metadata[MetaType]; ok {
		return BlockKind(v)
	}
	return BlockAppend
}

// WithKind returns a new block sharing the same records but with MetaType
// set to kind — used by operators that must compute an output kind
// deterministically from their inputs' kinds (§3 invariant iv) without
// mutating the (possibly still-referenced) input block.
func (b *DataBlock[T]) WithKind(kind BlockKind) *DataBlock[T] {
	m := make(map[string]string, len(b.metadata)+1)
	for k, v := range b.metadata {
		m[k] = v
	}
	m[MetaType] = string(kind)
	return &DataBlock[T]{records: b.records, metadata: m}
}
