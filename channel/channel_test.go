package channel_test

import (
	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Channel", func() {
	It("delivers writes to the reader in FIFO order", func() {
		w, r := channel.Create[int]()
		w.Write(data.FromRecordSet([]int{1, 2, 3}))
		w.Write(data.EOF[int]())

		first := r.Read()
		Expect(first.IsPresent()).To(BeTrue())
		Expect(first.DataBlock().Records()).To(Equal([]int{1, 2, 3}))

		second := r.Read()
		Expect(second.IsEndOfStream()).To(BeTrue())
	})

	It("TryRead reports absence on an empty channel without blocking", func() {
		_, r := channel.Create[int]()
		_, ok := r.TryRead()
		Expect(ok).To(BeFalse())
	})

	It("TryRead reports presence once a write lands", func() {
		w, r := channel.Create[int]()
		w.Write(data.FromRecordSet([]int{42}))
		m, ok := r.TryRead()
		Expect(ok).To(BeTrue())
		Expect(m.DataBlock().Records()).To(Equal([]int{42}))
	})

	It("lets every Writer clone send into the same channel", func() {
		w1, r := channel.Create[int]()
		w2 := w1.Clone()
		w1.Write(data.FromRecordSet([]int{1}))
		w2.Write(data.FromRecordSet([]int{2}))

		first := r.Read()
		second := r.Read()
		Expect(first.DataBlock().Records()).To(Equal([]int{1}))
		Expect(second.DataBlock().Records()).To(Equal([]int{2}))
	})
})

var _ = Describe("MultiChannelReader/Broadcaster", func() {
	It("broadcasts the same message to every subscriber in order", func() {
		mb := channel.NewMultiChannelBroadcaster[int]()
		w1, r1 := channel.Create[int]()
		w2, r2 := channel.Create[int]()
		mb.Push(w1)
		mb.Push(w2)

		mb.Write(data.FromRecordSet([]int{7}))

		m1 := r1.Read()
		m2 := r2.Read()
		Expect(m1.DataBlock().Records()).To(Equal([]int{7}))
		Expect(m2.DataBlock().Records()).To(Equal([]int{7}))
		// spec.md §3 invariant (iii) / §8: subscribers see identical
		// data-block identities, not copies — broadcasting clones the
		// handle, never the block.
		Expect(m1.DataBlock()).To(BeIdenticalTo(m2.DataBlock()))
	})

	It("exposes slot 0 as left and slot 1 as right", func() {
		mr := channel.NewMultiChannelReader[int]()
		_, r0 := channel.Create[int]()
		_, r1 := channel.Create[int]()
		mr.Push(r0)
		mr.Push(r1)

		Expect(mr.Reader(0)).To(BeIdenticalTo(r0))
		Expect(mr.Reader(1)).To(BeIdenticalTo(r1))
	})

	It("Clone shares the same underlying readers", func() {
		mr := channel.NewMultiChannelReader[int]()
		_, r0 := channel.Create[int]()
		mr.Push(r0)

		clone := mr.Clone()
		Expect(clone.Reader(0)).To(BeIdenticalTo(r0))
	})
})
