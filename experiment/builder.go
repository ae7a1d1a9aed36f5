package experiment

import (
	"log"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/tomschang/betabern/bernoulli"
	"github.com/tomschang/betabern/datarecording"
	"github.com/tomschang/betabern/monitoring"
	"github.com/tomschang/betabern/sim"
	"github.com/tomschang/betabern/trial"
)

// Builder can be used to build an experiment.
type Builder struct {
	bias          float64
	trials        int64
	seed          int64
	seedSet       bool
	snapshotEvery uint64

	monitorOn   bool
	monitorPort int
	openBrowser bool

	logTrials      bool
	outputFileName string
}

// MakeBuilder creates a new builder with the default parameters: a fair
// coin, monitoring on, and every trial recorded.
func MakeBuilder() Builder {
	return Builder{
		bias:          0.5,
		snapshotEvery: 1,
		monitorOn:     true,
	}
}

// WithBias sets the hidden bias of the coin.
func (b Builder) WithBias(bias float64) Builder {
	b.bias = bias
	return b
}

// WithTrials sets the number of flips the run performs.
func (b Builder) WithTrials(trials int64) Builder {
	b.trials = trials
	return b
}

// WithSeed fixes the seed of the randomness source, making the run
// reproducible. Without a seed, the run seeds itself from the wall clock.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	b.seedSet = true
	return b
}

// WithSnapshotEvery records only every k-th posterior snapshot. The final
// snapshot is always recorded. Useful for very long runs.
func (b Builder) WithSnapshotEvery(k uint64) Builder {
	b.snapshotEvery = k
	return b
}

// WithoutMonitoring sets the experiment to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowserOpen opens the monitoring dashboard in the default browser
// when the server starts.
func (b Builder) WithBrowserOpen() Builder {
	b.openBrowser = true
	return b
}

// WithTrialLogging logs every posterior snapshot to stderr.
func (b Builder) WithTrialLogging() Builder {
	b.logTrials = true
	return b
}

// WithOutputFileName sets the custom output file name for the data
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if b.snapshotEvery == 0 {
		panic("snapshot interval cannot be 0")
	}
}

// Build builds the experiment. Invalid bias or trial-count parameters are
// reported as errors before anything is created.
func (b Builder) Build() (*Experiment, error) {
	b.parametersMustBeValid()

	e := &Experiment{
		id: xid.New().String(),
	}

	e.seed = b.seed
	if !b.seedSet {
		e.seed = time.Now().UnixNano()
	}

	e.engine = sim.NewSerialEngine()

	source := bernoulli.NewRandSource(e.seed)
	updater, err := trial.NewUpdater("Coin", e.engine, source, b.bias, b.trials)
	if err != nil {
		return nil, err
	}
	e.updater = updater

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "betabern_run_" + e.id
	}
	e.dataRecorder = datarecording.New(outputPath)
	e.dataRecorder.CreateTable("trials", TrialSample{})
	e.dataRecorder.CreateTable("runs", RunSummary{})

	recorderHook := &posteriorRecorder{
		runID:    e.id,
		every:    b.snapshotEvery,
		trials:   updater.TrialCount(),
		recorder: e.dataRecorder,
	}
	updater.AcceptHook(recorderHook)

	if b.logTrials {
		logger := log.New(os.Stderr, "", log.Ltime)
		e.engine.AcceptHook(sim.NewEventLogger(logger))
		updater.AcceptHook(trial.NewPosteriorLogger(logger))
	}

	if b.monitorOn {
		e.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			e.monitor.WithPortNumber(b.monitorPort)
		}
		if b.openBrowser {
			e.monitor.OpenBrowserOnStart()
		}
		e.monitor.RegisterEngine(e.engine)
		e.monitor.RegisterUpdater(updater)

		bar := e.monitor.CreateProgressBar("Coin flips", updater.TrialCount())
		recorderHook.bar = bar

		e.monitor.StartServer()
	}

	return e, nil
}
