// Package monitoring turns a run into a server and allows external
// monitoring and controlling of the run.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"github.com/tomschang/betabern/monitoring/web"
	"github.com/tomschang/betabern/sim"
	"github.com/tomschang/betabern/trial"
)

// Monitor can turn a run into a server and allows external monitoring and
// controlling of the run.
type Monitor struct {
	engine      sim.Engine
	updaters    []*trial.Updater
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// OpenBrowserOnStart makes the monitor open the dashboard in the default
// browser once the server is listening.
func (m *Monitor) OpenBrowserOnStart() {
	m.openBrowser = true
}

// RegisterEngine registers the engine that is used in the run.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterUpdater registers an updater to be monitored.
func (m *Monitor) RegisterUpdater(u *trial.Updater) {
	m.updaters = append(m.updaters, u)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/posterior", m.listPosteriors)
	r.HandleFunc("/api/updaters", m.listUpdaters)
	r.HandleFunc("/api/updater/{name}", m.listUpdaterDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring run with %s\n", url)

	if m.openBrowser {
		go func() {
			_ = browser.OpenURL(url)
		}()
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentStep()
	fmt.Fprintf(w, "{\"now\":%d}", now)
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		err := m.engine.Run()
		if err != nil {
			panic(err)
		}
	}()
}

type posteriorRsp struct {
	Name         string   `json:"name"`
	Step         uint64   `json:"step"`
	Trials       uint64   `json:"trials"`
	Alpha        float64  `json:"alpha"`
	Beta         float64  `json:"beta"`
	Mean         float64  `json:"mean"`
	ApproxMedian float64  `json:"approx_median"`
	MAP          *float64 `json:"map"`
	CredibleLo   float64  `json:"credible_lo"`
	CredibleHi   float64  `json:"credible_hi"`
}

func (m *Monitor) listPosteriors(w http.ResponseWriter, _ *http.Request) {
	rsps := make([]posteriorRsp, 0, len(m.updaters))

	for _, u := range m.updaters {
		p := u.Posterior()

		rsp := posteriorRsp{
			Name:         u.Name(),
			Step:         u.Completed(),
			Trials:       u.TrialCount(),
			Alpha:        p.Alpha,
			Beta:         p.Beta,
			Mean:         p.Mean(),
			ApproxMedian: p.ApproxMedian(),
		}

		mode, err := p.MAP()
		if err == nil {
			rsp.MAP = &mode
		}

		rsp.CredibleLo, rsp.CredibleHi = p.CredibleInterval(0.95)

		rsps = append(rsps, rsp)
	}

	bytes, err := json.Marshal(rsps)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listUpdaters(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, u := range m.updaters {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", u.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listUpdaterDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	updater := m.findUpdaterOr404(w, name)
	if updater == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(updater)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findUpdaterOr404(
	w http.ResponseWriter,
	name string,
) *trial.Updater {
	var updater *trial.Updater
	for _, u := range m.updaters {
		if u.Name() == name {
			updater = u
		}
	}

	if updater == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Updater not found"))
		dieOnErr(err)
	}

	return updater
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	data, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
