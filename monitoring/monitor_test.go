package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/fmcsim"
	"github.com/sarchlab/memctl/instrumentation/tracing"
	"github.com/sarchlab/memctl/sdram"
	"github.com/sarchlab/memctl/timing"
)

func getJSON(server *httptest.Server, path string, v any) int {
	rsp, err := http.Get(server.URL + path)
	Expect(err).ToNot(HaveOccurred())
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	Expect(err).ToNot(HaveOccurred())

	if rsp.StatusCode == http.StatusOK && v != nil {
		Expect(json.Unmarshal(body, v)).To(Succeed())
	}

	return rsp.StatusCode
}

var _ = Describe("Monitor", func() {
	var (
		sim     *fmcsim.Comp
		c       *sdram.Comp
		counter *tracing.CountTracer
		m       *Monitor
		bar     *ProgressBar
		server  *httptest.Server
	)

	BeforeEach(func() {
		chip := devices.IS42S32800G6

		sdclk, err := sdram.SdClock(chip.Config(), chip.Timing(), 200*timing.MHz)
		Expect(err).ToNot(HaveOccurred())

		sim = fmcsim.MakeBuilder().
			WithSdram(fmc.SdramBank1, fmcsim.RequirementsFor(chip, sdclk)).
			Build("FMC")

		c, err = sdram.NewUnchecked(sim, fmc.SdramBank1, chip)
		Expect(err).ToNot(HaveOccurred())

		counter = tracing.NewCountTracer()
		tracing.CollectTrace(c, counter)

		m = NewMonitor()
		m.RegisterComponent(c)
		m.RegisterController(sim)
		m.RegisterCounter(counter)
		bar = m.TrackSequence(c)

		server = httptest.NewServer(m.Router())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should list components", func() {
		var names []string
		Expect(getJSON(server, "/api/list_components", &names)).
			To(Equal(http.StatusOK))
		Expect(names).To(Equal([]string{"SDRAM"}))
	})

	It("should return 404 for an unknown component", func() {
		Expect(getJSON(server, "/api/component/NAND", nil)).
			To(Equal(http.StatusNotFound))
	})

	It("should follow the power-up sequence", func() {
		var states []stateRsp
		getJSON(server, "/api/state", &states)
		Expect(states).To(Equal([]stateRsp{{Name: "SDRAM", State: "Unconfigured"}}))

		_, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		getJSON(server, "/api/state", &states)
		Expect(states).To(Equal([]stateRsp{{Name: "SDRAM", State: "Ready"}}))

		var bars []progressRsp
		getJSON(server, "/api/progress", &bars)
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].ID).To(Equal(bar.ID))
		Expect(bars[0].Total).To(Equal(uint64(12)))
		Expect(bars[0].Finished).To(Equal(uint64(12)))
		Expect(bars[0].InProgress).To(BeZero())

		m.CompleteProgressBar(bar)
		getJSON(server, "/api/progress", &bars)
		Expect(bars).To(BeEmpty())
	})

	It("should report commands and registers", func() {
		_, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		var cmds []commandRsp
		getJSON(server, "/api/commands", &cmds)
		Expect(cmds).To(HaveLen(11))
		Expect(cmds[0].Command).To(Equal("CLK_ENABLE"))
		Expect(cmds[0].Bank1).To(BeTrue())
		Expect(cmds[10].Command).To(Equal("LOAD_MODE"))

		var regs []registerRsp
		getJSON(server, "/api/registers", &regs)
		Expect(regs).ToNot(BeEmpty())
		Expect(regs[0].Register).To(Equal("BCR1"))

		var faults []string
		getJSON(server, "/api/faults", &faults)
		Expect(faults).To(BeEmpty())
	})

	It("should report event counts", func() {
		_, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		var events eventsRsp
		getJSON(server, "/api/events", &events)
		Expect(events.Counts[tracing.KindCommand]).To(Equal(uint64(11)))
		Expect(events.ElapsedNs).To(Equal(c.Plan().Duration().Nanoseconds()))
	})

	It("should serve the controller while it powers up", func() {
		done := make(chan struct{})
		codes := make(chan int, 1024)

		var wg sync.WaitGroup
		for _, path := range []string{
			"/api/state",
			"/api/component/SDRAM",
			"/api/progress",
			"/api/commands",
		} {
			wg.Add(1)

			go func(path string) {
				defer wg.Done()

				for {
					select {
					case <-done:
						return
					default:
					}

					rsp, err := http.Get(server.URL + path)
					if err != nil {
						continue
					}

					_, _ = io.Copy(io.Discard, rsp.Body)
					rsp.Body.Close()

					select {
					case codes <- rsp.StatusCode:
					default:
					}
				}
			}(path)
		}

		_, err := c.Init(sim.Clock())
		close(done)
		wg.Wait()
		close(codes)

		Expect(err).ToNot(HaveOccurred())

		for code := range codes {
			Expect(code).To(Equal(http.StatusOK))
		}

		var states []stateRsp
		getJSON(server, "/api/state", &states)
		Expect(states).To(Equal([]stateRsp{{Name: "SDRAM", State: "Ready"}}))
	})

	It("should describe a component from a copy", func() {
		_, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		d, ok := serializationRoot(c).(*sdram.Description)
		Expect(ok).To(BeTrue())
		Expect(d.State).To(Equal("Ready"))
		Expect(d.Region).To(Equal(c.Region().String()))
		Expect(d.Steps).To(Equal(12))

		Expect(getJSON(server, "/api/component/SDRAM", nil)).
			To(Equal(http.StatusOK))
	})

	It("should reject a malformed field request", func() {
		Expect(getJSON(server, "/api/field/not-json", nil)).
			To(Equal(http.StatusBadRequest))
	})

	It("should serve the page", func() {
		rsp, err := http.Get(server.URL + "/")
		Expect(err).ToNot(HaveOccurred())
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})

var _ = Describe("Monitor without a controller", func() {
	It("should return 404", func() {
		server := httptest.NewServer(NewMonitor().Router())
		defer server.Close()

		Expect(getJSON(server, "/api/registers", nil)).To(Equal(http.StatusNotFound))
		Expect(getJSON(server, "/api/events", nil)).To(Equal(http.StatusNotFound))
	})

	It("should refuse privileged ports", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(BeZero())
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})
})
