package graph_test

import (
	"github.com/arcwake/wake/channel"
	"github.com/arcwake/wake/data"
	"github.com/arcwake/wake/graph"
	"github.com/arcwake/wake/processor"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func identity(records []int) []int { return records }

func drain(r *channel.Reader[int]) []data.Message[int] {
	var out []data.Message[int]
	for {
		m := r.Read()
		out = append(out, m)
		if m.IsEndOfStream() || m.IsSignal() {
			return out
		}
	}
}

var _ = Describe("ExecutionNode/ExecutionService", func() {
	It("runs Source -> SimpleMapper(identity) yielding an identical record sequence", func() {
		source := processor.NewSliceSource([][]int{{1, 2, 3}, {4, 5}}, map[string]string{"reserved.schema": "int"}, nil)
		mapper := processor.NewSimpleMapper(identity)

		sourceNode := graph.NewNode[int](source, 0)
		mapperNode := graph.NewNode[int](mapper, 1)
		mapperNode.SubscribeTo(sourceNode, 0)

		w, r := channel.Create[int]()
		mapperNode.Add(w)

		svc := graph.NewExecutionService()
		svc.Add(sourceNode)
		svc.Add(mapperNode)
		svc.Run()

		msgs := drain(r)
		Expect(svc.Join()).To(Succeed())

		Expect(msgs).To(HaveLen(3))
		Expect(msgs[0].DataBlock().Records()).To(Equal([]int{1, 2, 3}))
		Expect(msgs[0].DataBlock().Metadata()).To(Equal(map[string]string{"reserved.schema": "int"}))
		Expect(msgs[1].DataBlock().Records()).To(Equal([]int{4, 5}))
		Expect(msgs[2].IsEndOfStream()).To(BeTrue())
	})

	It("propagates end-of-stream through a chain of five mappers", func() {
		source := processor.NewSliceSource([][]int{{1}}, nil, nil)
		sourceNode := graph.NewNode[int](source, 0)

		svc := graph.NewExecutionService()
		svc.Add(sourceNode)

		upstream := graph.Subscribable[int](sourceNode)
		var last *graph.ExecutionNode[int]
		for i := 0; i < 5; i++ {
			n := graph.NewNode[int](processor.NewSimpleMapper(identity), 1)
			n.SubscribeTo(upstream, 0)
			svc.Add(n)
			upstream = n
			last = n
		}

		w, r := channel.Create[int]()
		last.Add(w)

		svc.Run()
		msgs := drain(r)
		Expect(svc.Join()).To(Succeed())

		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].DataBlock().Records()).To(Equal([]int{1}))
		Expect(msgs[1].IsEndOfStream()).To(BeTrue())
	})

	It("propagates a stop signal through a chain of five mappers without forwarding data", func() {
		svc := graph.NewExecutionService()

		var head, last *graph.ExecutionNode[int]
		var upstream graph.Subscribable[int]
		for i := 0; i < 5; i++ {
			n := graph.NewNode[int](processor.NewSimpleMapper(identity), 1)
			if upstream != nil {
				n.SubscribeTo(upstream, 0)
			}
			svc.Add(n)
			if i == 0 {
				head = n
			}
			upstream = n
			last = n
		}

		w, r := channel.Create[int]()
		last.Add(w)

		// Inject stop directly on the first mapper's input; no source
		// node is ever added, so the chain observes Signal(stop) before
		// any data could arrive.
		head.SelfWriter(0).Write(data.Stop[int]())

		svc.Run()
		Expect(svc.Join()).To(Succeed())

		msgs := drain(r)
		Expect(msgs).To(HaveLen(1), "mapper chain must not forward data once Signal(stop) is observed")
		Expect(msgs[0].IsSignal()).To(BeTrue())
	})
})
