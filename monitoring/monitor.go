// Package monitoring serves the state of the memory controller over HTTP
// while a driver runs.
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
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/fmcsim"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/instrumentation/tracing"
	"github.com/sarchlab/memctl/monitoring/web"
	"github.com/sarchlab/memctl/sdram"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A Controller exposes the registers and the command log of a controller.
type Controller interface {
	Dump() map[fmc.Offset]uint32
	Commands() []fmcsim.CommandRecord
	Faults() []error
}

type stateful interface {
	Name() string
	State() sdram.State
}

// A describer hands out a copy of its fields, so that it can be serialized
// while the component is working.
type describer interface {
	Describe() any
}

func serializationRoot(c hooking.Hookable) any {
	if d, ok := c.(describer); ok {
		return d.Describe()
	}

	return c
}

// Monitor turns a driver run into a web server that shows its progress.
type Monitor struct {
	lock       sync.Mutex
	components []hooking.Hookable
	controller Controller
	counter    *tracing.CountTracer
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterComponent registers a driver to be monitored.
func (m *Monitor) RegisterComponent(c hooking.Hookable) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.components = append(m.components, c)
}

// RegisterController sets the controller whose registers are shown.
func (m *Monitor) RegisterController(c Controller) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.controller = c
}

// RegisterCounter sets the tracer that counts driver events.
func (m *Monitor) RegisterCounter(t *tracing.CountTracer) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.counter = t
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
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

// TrackSequence creates a bar that follows the power-up sequence of an SDRAM
// controller, one tick per step. Call it before Init.
func (m *Monitor) TrackSequence(c *sdram.Comp) *ProgressBar {
	bar := m.CreateProgressBar(c.Name(), uint64(len(c.Plan().Steps)))
	c.AcceptHook(&sequenceProgress{bar: bar})

	return bar
}

// Router returns the handler that serves the API and the web page.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	fServer := http.FileServer(web.GetAssets())
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/state", m.listStates)
	r.HandleFunc("/api/registers", m.listRegisters)
	r.HandleFunc("/api/commands", m.listCommands)
	r.HandleFunc("/api/faults", m.listFaults)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() (int, error) {
	actualPort := ":" + strconv.Itoa(m.portNumber)

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return 0, err
	}

	port := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr,
		"Monitoring memory controller with http://localhost:%d\n", port)

	go func() {
		err := http.Serve(listener, m.Router())
		dieOnErr(err)
	}()

	return port, nil
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(serializationRoot(component))
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	if err := json.Unmarshal([]byte(jsonString), &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(serializationRoot(component))
	serializer.SetMaxDepth(1)

	err := serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type stateRsp struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

func (m *Monitor) listStates(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	rsp := []stateRsp{}

	for _, c := range m.components {
		if s, ok := c.(stateful); ok {
			rsp = append(rsp, stateRsp{Name: s.Name(), State: s.State().String()})
		}
	}

	writeJSON(w, rsp)
}

type registerRsp struct {
	Register string `json:"register"`
	Offset   uint32 `json:"offset"`
	Value    string `json:"value"`
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	c := m.registeredController(w)
	if c == nil {
		return
	}

	dump := c.Dump()
	rsp := make([]registerRsp, 0, len(dump))

	for _, off := range fmcsim.DumpOffsets(dump) {
		rsp = append(rsp, registerRsp{
			Register: off.String(),
			Offset:   uint32(off),
			Value:    fmt.Sprintf("0x%08x", dump[off]),
		})
	}

	writeJSON(w, rsp)
}

type commandRsp struct {
	ID      uint64 `json:"id"`
	AtNs    int64  `json:"at_ns"`
	Command string `json:"command"`
	Bank1   bool   `json:"bank1"`
	Bank2   bool   `json:"bank2"`
}

func (m *Monitor) listCommands(w http.ResponseWriter, _ *http.Request) {
	c := m.registeredController(w)
	if c == nil {
		return
	}

	cmds := c.Commands()
	rsp := make([]commandRsp, 0, len(cmds))

	for _, cmd := range cmds {
		rsp = append(rsp, commandRsp{
			ID:      cmd.ID,
			AtNs:    cmd.At.Nanoseconds(),
			Command: cmd.Mode.String(),
			Bank1:   cmd.Bank1,
			Bank2:   cmd.Bank2,
		})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listFaults(w http.ResponseWriter, _ *http.Request) {
	c := m.registeredController(w)
	if c == nil {
		return
	}

	faults := c.Faults()
	rsp := make([]string, 0, len(faults))

	for _, f := range faults {
		rsp = append(rsp, f.Error())
	}

	writeJSON(w, rsp)
}

type eventsRsp struct {
	Counts    map[string]uint64 `json:"counts"`
	Last      string            `json:"last"`
	ElapsedNs int64             `json:"elapsed_ns"`
}

func (m *Monitor) listEvents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	counter := m.counter
	m.lock.Unlock()

	if counter == nil {
		http.Error(w, "No event counter registered", http.StatusNotFound)
		return
	}

	rsp := eventsRsp{Counts: make(map[string]uint64)}
	for _, k := range counter.Kinds() {
		rsp.Counts[k] = counter.Count(k)
	}

	rsp.Last = counter.Last().String()
	rsp.ElapsedNs = counter.Elapsed().Nanoseconds()

	writeJSON(w, rsp)
}

func (m *Monitor) registeredController(w http.ResponseWriter) Controller {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.controller == nil {
		http.Error(w, "No controller registered", http.StatusNotFound)
	}

	return m.controller
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) hooking.Hookable {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "Component not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	rsp := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		rsp = append(rsp, b.snapshot())
	}

	writeJSON(w, rsp)
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

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
