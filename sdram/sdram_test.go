package sdram_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/fmcsim"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/pins"
	"github.com/sarchlab/memctl/sdram"
	"github.com/sarchlab/memctl/timing"
)

type recordingHook struct {
	ctxs []hooking.HookCtx
}

func (h *recordingHook) Func(ctx hooking.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

func (h *recordingHook) at(pos *hooking.HookPos) []any {
	var items []any

	for _, ctx := range h.ctxs {
		if ctx.Pos == pos {
			items = append(items, ctx.Item)
		}
	}

	return items
}

func simFor(chip sdram.Chip, bank fmc.SdramBank, kernel timing.Freq) *fmcsim.Comp {
	sdclk, err := sdram.SdClock(chip.Config(), chip.Timing(), kernel)
	Expect(err).ToNot(HaveOccurred())

	return fmcsim.MakeBuilder().
		WithKernelClock(kernel).
		WithSdram(bank, fmcsim.RequirementsFor(chip, sdclk)).
		Build("FMC")
}

var _ = Describe("Comp", func() {
	var (
		chip sdram.Chip
		sim  *fmcsim.Comp
		bus  pins.Sdram
	)

	BeforeEach(func() {
		var err error

		chip = devices.AS4C16M32MSA6
		sim = simFor(chip, fmc.SdramBank2, 200*timing.MHz)
		bus, err = pins.H747IDiscoSdram().Validate()
		Expect(err).ToNot(HaveOccurred())
	})

	It("should power the part up and return its window", func() {
		c, err := sdram.New(sim, bus, chip)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.State()).To(Equal(sdram.StateUnconfigured))

		region, err := c.Init(sim.Clock())

		Expect(err).ToNot(HaveOccurred())
		Expect(region.Base).To(Equal(uintptr(0xD000_0000)))
		Expect(region.Size).To(Equal(uint64(64 << 20)))
		Expect(c.Region()).To(Equal(region))
		Expect(c.State()).To(Equal(sdram.StateReady))
		Expect(sim.Faults()).To(BeEmpty())
		Expect(sim.Sdram(fmc.SdramBank2).Ready()).To(BeTrue())
		Expect(sim.Sdram(fmc.SdramBank2).RefreshCount()).To(Equal(uint32(761)))
	})

	It("should issue eight refreshes between precharge and mode load", func() {
		c, err := sdram.New(sim, bus, chip)
		Expect(err).ToNot(HaveOccurred())

		_, err = c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		cmds := sim.Commands()
		Expect(cmds).To(HaveLen(11))
		Expect(cmds[0].Mode).To(Equal(fmc.ModeClockEnable))
		Expect(cmds[1].Mode).To(Equal(fmc.ModePrechargeAll))

		trc := max(chip.Timing().RowCycle, chip.Timing().RowToRow)
		for i := 2; i < 10; i++ {
			Expect(cmds[i].Mode).To(Equal(fmc.ModeAutoRefresh))
			Expect(cmds[i].Bank2).To(BeTrue())
			Expect(cmds[i].Bank1).To(BeFalse())
			Expect(cmds[i+1].At - cmds[i].At).To(BeNumerically(">=", trc))
		}

		Expect(cmds[10].Mode).To(Equal(fmc.ModeLoadMode))
		Expect(cmds[10].ModeRegister).To(Equal(uint32(chip.ModeRegister())))
		Expect(cmds[1].At - cmds[0].At).
			To(BeNumerically(">=", chip.Timing().StartupDelay))
	})

	It("should program the registers it reads back", func() {
		c, err := sdram.New(sim, bus, chip)
		Expect(err).ToNot(HaveOccurred())

		_, err = c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		s := c.Snapshot()
		Expect(s.Bank).To(Equal(fmc.SdramBank2))
		Expect(s.ColumnBits).To(Equal(uint32(9)))
		Expect(s.RowBits).To(Equal(uint32(13)))
		Expect(s.DataWidth).To(Equal(uint32(32)))
		Expect(s.InternalBanks).To(Equal(uint32(4)))
		Expect(s.CasLatency).To(Equal(uint32(3)))
		Expect(s.SdClockDivide).To(Equal(uint32(2)))
		Expect(s.ReadBurst).To(BeTrue())
		Expect(s.TRCD).To(Equal(uint32(c.Timing().TRCD)))
		Expect(s.TRP).To(Equal(uint32(c.Timing().TRP)))
		Expect(s.TRC).To(Equal(uint32(c.Timing().TRC)))
		Expect(s.TWR).To(Equal(uint32(c.Timing().TWR)))
		Expect(s.RefreshCount).To(Equal(uint32(761)))
		Expect(s.String()).To(ContainSubstring("SDRAM2: 9 cols, 13 rows"))
	})

	It("should make the window usable", func() {
		c, err := sdram.New(sim, bus, chip)
		Expect(err).ToNot(HaveOccurred())

		region, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		mem := sim.Memory()
		mem.Write8(region.End()-1, 0x3C)
		Expect(mem.Read8(region.End() - 1)).To(Equal(uint8(0x3C)))
	})

	It("should refuse a second Init", func() {
		c, err := sdram.New(sim, bus, chip)
		Expect(err).ToNot(HaveOccurred())

		_, err = c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())
		writes := sim.RegisterWrites()

		_, err = c.Init(sim.Clock())

		Expect(err).To(MatchError(sdram.ErrAlreadyInitialized))
		Expect(sim.RegisterWrites()).To(Equal(writes))
	})

	It("should raise hooks for every step", func() {
		h := &recordingHook{}

		c, err := sdram.MakeBuilder().
			WithPeripheral(sim).
			WithPins(bus).
			WithChip(chip).
			WithAdditionalHooks(h).
			Build("SDRAM")
		Expect(err).ToNot(HaveOccurred())

		_, err = c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		Expect(h.at(sdram.HookPosCommand)).To(HaveLen(11))
		Expect(h.at(sdram.HookPosHold)).To(HaveLen(11))
		Expect(h.at(fmc.HookPosRegisterWrite)).
			To(HaveLen(sim.RegisterWrites()))

		states := h.at(sdram.HookPosStateEnter)
		Expect(states[0]).To(Equal(sdram.StateClockEnabled))
		Expect(states[len(states)-1]).To(Equal(sdram.StateReady))

		first := h.at(sdram.HookPosCommand)[0].(sdram.Command)
		Expect(first.String()).To(Equal("CLK_ENABLE SDRAM2"))
	})

	It("should fault when the controller stays busy", func() {
		sim = fmcsim.MakeBuilder().WithBusyReads(-1).Build("FMC")

		c, err := sdram.MakeBuilder().
			WithPeripheral(sim).
			WithPins(bus).
			WithChip(chip).
			WithBusyPollLimit(10).
			Build("SDRAM")
		Expect(err).ToNot(HaveOccurred())

		_, err = c.Init(sim.Clock())

		Expect(err).To(MatchError(sdram.ErrControllerStuck))
		Expect(c.State()).To(Equal(sdram.StateFaulted))
		Expect(sim.Commands()).To(HaveLen(1))
		Expect(sim.Clock().Now()).To(BeZero())
	})

	It("should not need pins when unchecked", func() {
		sim = simFor(chip, fmc.SdramBank1, 200*timing.MHz)

		c, err := sdram.NewUnchecked(sim, fmc.SdramBank1, chip)
		Expect(err).ToNot(HaveOccurred())

		region, err := c.Init(sim.Clock())

		Expect(err).ToNot(HaveOccurred())
		Expect(region.Base).To(Equal(uintptr(0xC000_0000)))
		Expect(sim.Faults()).To(BeEmpty())
	})

	It("should power up every catalog part without violations", func() {
		for _, name := range devices.SdramNames() {
			part, err := devices.Sdram(name)
			Expect(err).ToNot(HaveOccurred())

			for _, kernel := range []timing.Freq{180 * timing.MHz, 200 * timing.MHz} {
				s := simFor(part, fmc.SdramBank1, kernel)

				c, err := sdram.NewUnchecked(s, fmc.SdramBank1, part)
				Expect(err).ToNot(HaveOccurred(), name)

				_, err = c.Init(s.Clock())
				Expect(err).ToNot(HaveOccurred(), name)
				Expect(s.Faults()).To(BeEmpty(), name)
			}
		}
	})

	Context("when the build is rejected", func() {
		It("should reject a bus narrower than the part", func() {
			narrow, err := pins.H7Bank1Sdram16().Validate()
			Expect(err).ToNot(HaveOccurred())

			_, err = sdram.New(sim, narrow, chip)

			Expect(err).To(MatchError(sdram.ErrBusMismatch))
		})

		It("should reject a bank the pins do not select", func() {
			_, err := sdram.MakeBuilder().
				WithPeripheral(sim).
				WithPins(bus).
				WithBank(fmc.SdramBank1).
				WithChip(chip).
				Build("SDRAM")

			Expect(err).To(MatchError(sdram.ErrBusMismatch))
		})

		It("should reject a bus that was never validated", func() {
			_, err := sdram.New(sim, pins.Sdram{}, chip)

			Expect(err).To(MatchError(sdram.ErrBusMismatch))
		})

		It("should reject an invalid bank", func() {
			_, err := sdram.NewUnchecked(sim, 3, chip)

			Expect(err).To(MatchError(sdram.ErrInvalidConfig))
		})

		It("should reject a clock above the part's maximum", func() {
			_, err := sdram.MakeBuilder().
				WithPeripheral(sim).
				WithPins(bus).
				WithChip(chip).
				WithKernelClock(400 * timing.MHz).
				Build("SDRAM")

			Expect(err).To(MatchError(sdram.ErrClockTooFast))
		})

		It("should reject a mode register with another CAS latency", func() {
			d := devices.AS4C16M32MSA6
			d.Mode = sdram.CasLatency2

			_, err := sdram.New(sim, bus, d)

			var cfgErr *sdram.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("ModeRegister"))
		})

		It("should reject a timing that does not fit", func() {
			d := devices.AS4C16M32MSA6
			d.Tim.ExitSelfRefresh = time.Microsecond

			_, err := sdram.New(sim, bus, d)

			Expect(err).To(MatchError(timing.ErrOutOfRange))
			Expect(err.Error()).To(ContainSubstring("AS4C16M32MSA-6"))
		})

		It("should reject a nil delay without writing", func() {
			c, err := sdram.New(sim, bus, chip)
			Expect(err).ToNot(HaveOccurred())

			_, err = c.Init(nil)

			Expect(err).To(MatchError(sdram.ErrInvalidConfig))
			Expect(sim.RegisterWrites()).To(BeZero())
		})
	})
})

var _ = Describe("Comp with a mocked peripheral", func() {
	var (
		mockCtrl *gomock.Controller
		periph   *MockPeripheral
		delay    *MockDelay
		regs     *fmcsim.Comp
		c        *sdram.Comp
	)

	BeforeEach(func() {
		var err error

		mockCtrl = gomock.NewController(GinkgoT())
		periph = NewMockPeripheral(mockCtrl)
		delay = NewMockDelay(mockCtrl)
		regs = fmcsim.MakeBuilder().Build("FMC")
		regs.Enable()

		periph.EXPECT().SourceClock().Return(200 * timing.MHz)
		c, err = sdram.NewUnchecked(periph, fmc.SdramBank1, devices.AS4C16M32MSA6)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should enable the controller around programming", func() {
		periph.EXPECT().Registers().Return(regs)
		gomock.InOrder(
			periph.EXPECT().Enable(),
			periph.EXPECT().MemoryControllerEnable().Do(func() {
				Expect(regs.Dump()).To(HaveKey(fmc.SDTR1))
				Expect(regs.Commands()).To(BeEmpty())
			}),
		)
		delay.EXPECT().Delay(gomock.Any()).AnyTimes()

		_, err := c.Init(delay)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should wait the holds of the plan in order", func() {
		t := c.Timing()

		periph.EXPECT().Registers().Return(regs)
		periph.EXPECT().Enable()
		periph.EXPECT().MemoryControllerEnable()
		gomock.InOrder(
			delay.EXPECT().Delay(t.StartupHold),
			delay.EXPECT().Delay(t.PrechargeHold),
			delay.EXPECT().Delay(t.RefreshHold).Times(8),
			delay.EXPECT().Delay(t.ModeHold),
		)

		_, err := c.Init(delay)

		Expect(err).ToNot(HaveOccurred())
		Expect(t.StartupHold).To(Equal(200 * time.Microsecond))
		Expect(c.Plan().Duration()).To(Equal(210 * time.Microsecond))
	})
})

var _ = Describe("Plan", func() {
	var plan sdram.Plan

	BeforeEach(func() {
		r, err := sdram.Translate(testTiming(), 100*timing.MHz)
		Expect(err).ToNot(HaveOccurred())

		plan = sdram.NewPlan(fmc.SdramBank1, r, sdram.CasLatency3)
	})

	It("should follow the power-up order", func() {
		Expect(plan.Validate()).To(Succeed())
		Expect(plan.Steps).To(HaveLen(12))
		Expect(plan.Steps[11].IssuesCommand()).To(BeFalse())
	})

	It("should reject steps out of order", func() {
		plan.Steps[0], plan.Steps[1] = plan.Steps[1], plan.Steps[0]

		Expect(plan.Validate()).To(MatchError(sdram.ErrInvalidConfig))
	})

	It("should reject a plan that does not end in Ready", func() {
		plan.Steps = plan.Steps[:len(plan.Steps)-1]

		Expect(plan.Validate()).To(MatchError(sdram.ErrInvalidConfig))
	})

	It("should reject a refresh count the timer cannot hold", func() {
		plan.RefreshCount = 8192

		Expect(plan.Validate()).To(MatchError(timing.ErrOutOfRange))
	})
})
