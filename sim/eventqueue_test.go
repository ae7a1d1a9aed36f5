package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventQueue", func() {
	var queue *EventQueueImpl

	BeforeEach(func() {
		queue = NewEventQueue()
	})

	It("should pop events in step order", func() {
		handler := NewMockHandler()
		queue.Push(NewMockEvent(7, handler))
		queue.Push(NewMockEvent(1, handler))
		queue.Push(NewMockEvent(4, handler))

		Expect(queue.Len()).To(Equal(3))
		Expect(queue.Pop().Step()).To(Equal(Step(1)))
		Expect(queue.Pop().Step()).To(Equal(Step(4)))
		Expect(queue.Pop().Step()).To(Equal(Step(7)))
	})

	It("should peek without removing", func() {
		handler := NewMockHandler()
		queue.Push(NewMockEvent(2, handler))

		Expect(queue.Peek().Step()).To(Equal(Step(2)))
		Expect(queue.Len()).To(Equal(1))
	})
})
