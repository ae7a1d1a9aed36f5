package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tomschang/betabern/bernoulli"
	"github.com/tomschang/betabern/sim"
	"github.com/tomschang/betabern/trial"
)

var _ = Describe("Monitor", func() {
	var (
		engine  *sim.SerialEngine
		updater *trial.Updater
		monitor *Monitor
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()

		var err error
		updater, err = trial.NewUpdater(
			"Coin", engine,
			&bernoulli.SequenceSource{Draws: []float64{0.1, 0.9, 0.2}},
			0.5, 3)
		Expect(err).NotTo(HaveOccurred())

		monitor = NewMonitor()
		monitor.RegisterEngine(engine)
		monitor.RegisterUpdater(updater)
	})

	It("should report the current step", func() {
		updater.StartRun()
		Expect(engine.Run()).To(Succeed())

		w := httptest.NewRecorder()
		monitor.now(w, nil)

		Expect(w.Body.String()).To(Equal(`{"now":3}`))
	})

	It("should list updater names", func() {
		w := httptest.NewRecorder()
		monitor.listUpdaters(w, nil)

		Expect(w.Body.String()).To(Equal(`["Coin"]`))
	})

	It("should report posteriors with guarded MAP", func() {
		w := httptest.NewRecorder()
		monitor.listPosteriors(w, nil)

		var rsps []posteriorRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsps)).To(Succeed())

		Expect(rsps).To(HaveLen(1))
		Expect(rsps[0].Name).To(Equal("Coin"))
		Expect(rsps[0].Alpha).To(Equal(1.0))
		Expect(rsps[0].Beta).To(Equal(1.0))
		Expect(rsps[0].Mean).To(Equal(0.5))
		Expect(rsps[0].MAP).To(BeNil())
	})

	It("should report posteriors after a run", func() {
		updater.StartRun()
		Expect(engine.Run()).To(Succeed())

		w := httptest.NewRecorder()
		monitor.listPosteriors(w, nil)

		var rsps []posteriorRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsps)).To(Succeed())

		Expect(rsps[0].Step).To(Equal(uint64(3)))
		Expect(rsps[0].Alpha).To(Equal(3.0))
		Expect(rsps[0].Beta).To(Equal(2.0))
		Expect(rsps[0].MAP).NotTo(BeNil())
		Expect(*rsps[0].MAP).To(BeNumerically("~", 2.0/3.0, 1e-12))
	})

	It("should track progress bars", func() {
		bar := monitor.CreateProgressBar("Coin flips", 3)
		bar.IncrementFinished(2)

		w := httptest.NewRecorder()
		monitor.listProgressBars(w, nil)

		var bars []map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())

		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Coin flips"))
		Expect(bars[0]["total"]).To(BeNumerically("==", 3))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 2))

		monitor.CompleteProgressBar(bar)

		w = httptest.NewRecorder()
		monitor.listProgressBars(w, nil)
		Expect(w.Body.String()).To(Equal("[]"))
	})
})
