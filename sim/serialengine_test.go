package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SerialEngine", func() {
	var (
		engine  *SerialEngine
		handler *MockHandler
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		handler = NewMockHandler()
	})

	It("should run events in step order", func() {
		evt1 := NewMockEvent(4, handler)
		evt2 := NewMockEvent(2, handler)
		evt3 := NewMockEvent(3, handler)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())

		Expect(handler.EventHandled).To(HaveLen(3))
		Expect(handler.EventHandled[0]).To(BeIdenticalTo(evt2))
		Expect(handler.EventHandled[1]).To(BeIdenticalTo(evt3))
		Expect(handler.EventHandled[2]).To(BeIdenticalTo(evt1))
	})

	It("should allow handlers to schedule follow-up events", func() {
		count := 0
		handler.HandleFunc = func(e Event) {
			count++
			if count < 10 {
				engine.Schedule(NewMockEvent(e.Step()+1, handler))
			}
		}

		engine.Schedule(NewMockEvent(1, handler))

		Expect(engine.Run()).To(Succeed())

		Expect(count).To(Equal(10))
		Expect(engine.CurrentStep()).To(Equal(Step(10)))
	})

	It("should advance the current step while running", func() {
		handler.HandleFunc = func(e Event) {
			Expect(engine.CurrentStep()).To(Equal(e.Step()))
		}

		engine.Schedule(NewMockEvent(1, handler))
		engine.Schedule(NewMockEvent(2, handler))

		Expect(engine.Run()).To(Succeed())
	})

	It("should refuse to schedule events in the past", func() {
		engine.Schedule(NewMockEvent(5, handler))

		Expect(engine.Run()).To(Succeed())

		Expect(func() {
			engine.Schedule(NewMockEvent(2, handler))
		}).To(Panic())
	})

	It("should invoke run end handlers", func() {
		endHandler := &mockRunEndHandler{}
		engine.RegisterRunEndHandler(endHandler)

		engine.Schedule(NewMockEvent(3, handler))

		Expect(engine.Run()).To(Succeed())
		engine.Finished()

		Expect(endHandler.calledAt).To(Equal(Step(3)))
	})
})

type mockRunEndHandler struct {
	calledAt Step
}

func (h *mockRunEndHandler) Handle(now Step) {
	h.calledAt = now
}
