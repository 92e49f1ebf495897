package nand_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/fmcsim"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/nand"
	"github.com/sarchlab/memctl/pins"
	"github.com/sarchlab/memctl/timing"
)

type commandHook struct {
	commands []nand.Command
	writes   int
}

func (h *commandHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case nand.HookPosCommand:
		h.commands = append(h.commands, ctx.Item.(nand.Command))
	case fmc.HookPosRegisterWrite:
		h.writes++
	}
}

var _ = Describe("Comp", func() {
	var (
		sim *fmcsim.Comp
		bus pins.Nand
		c   *nand.Comp
	)

	BeforeEach(func() {
		var err error

		sim = fmcsim.MakeBuilder().
			WithKernelClock(200 * timing.MHz).
			WithNand(fmcsim.DefaultNandGeometry).
			Build("FMC")

		bus, err = pins.H7Nand8().Validate()
		Expect(err).ToNot(HaveOccurred())

		c, err = nand.New(sim, bus, devices.S34ML08G3)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should program the timing registers", func() {
		_, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		regs := sim.Dump()
		pcr := regs[fmc.PCR]
		Expect(fmc.PcrPBKEN.Get(pcr)).To(Equal(uint32(1)))
		Expect(fmc.PcrPTYP.Get(pcr)).To(Equal(uint32(1)))
		Expect(fmc.PcrPWAITEN.Get(pcr)).To(Equal(uint32(1)))
		Expect(fmc.PcrPWID.Get(pcr)).To(BeZero())
		Expect(fmc.PcrECCEN.Get(pcr)).To(BeZero())

		Expect(fmc.PmemWAIT.Get(regs[fmc.PMEM])).To(Equal(uint32(1)))
		Expect(fmc.PmemHIZ.Get(regs[fmc.PMEM])).To(Equal(uint32(4)))
		Expect(fmc.PmemHOLD.Get(regs[fmc.PATT])).To(Equal(uint32(6)))
		Expect(sim.Clock().Delays()).To(HaveLen(1))
	})

	It("should reset the part during Init", func() {
		_, err := c.Init(sim.Clock())

		Expect(err).ToNot(HaveOccurred())
		Expect(sim.Nand().Commands()).To(Equal([]uint8{0xFF}))
		Expect(sim.Faults()).To(BeEmpty())
	})

	It("should refuse a second Init", func() {
		_, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		_, err = c.Init(sim.Clock())

		Expect(err).To(MatchError(nand.ErrAlreadyInitialized))
	})

	It("should reject a nil delay", func() {
		_, err := c.Init(nil)

		Expect(err).To(MatchError(nand.ErrInvalidConfig))
	})

	It("should report commands and register writes to hooks", func() {
		h := &commandHook{}

		c, err := nand.MakeBuilder().
			WithPeripheral(sim).
			WithChip(devices.S34ML08G3).
			WithAdditionalHooks(h).
			Build("NAND")
		Expect(err).ToNot(HaveOccurred())

		dev, err := c.Init(sim.Clock())
		Expect(err).ToNot(HaveOccurred())

		dev.ReadID()

		Expect(h.commands).To(Equal([]nand.Command{nand.CmdReset, nand.CmdReadID}))
		Expect(h.writes).To(Equal(4))
	})

	Context("when initialized", func() {
		var dev *nand.Device

		BeforeEach(func() {
			var err error

			dev, err = c.Init(sim.Clock())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should read the ID", func() {
			id := dev.ReadID()

			Expect(id.Manufacturer).To(Equal(uint8(0x01)))
			Expect(id.Device).To(Equal(uint8(0xD3)))
			Expect(id.InternalChips).To(Equal(2))
			Expect(id.PageSize).To(Equal(2048))
		})

		It("should read the parameter page", func() {
			p := dev.ReadParameterPage()

			Expect(p.Valid()).To(BeTrue())
			Expect(p.Manufacturer).To(Equal("SPANSION"))
			Expect(p.Model).To(Equal("S34ML08G3"))
			Expect(p.DataBytesPerPage).To(Equal(uint32(4096)))
			Expect(p.SpareBytesPerPage).To(Equal(uint16(256)))
			Expect(p.PagesPerBlock).To(Equal(uint32(64)))
			Expect(p.BlocksPerLUN).To(Equal(uint32(64)))
			Expect(p.LUNs).To(Equal(uint8(1)))
		})

		It("should read the unique ID", func() {
			Expect(dev.ReadUniqueID()).To(Equal(fmcsim.DefaultNandGeometry.UniqueID))
		})

		It("should report ready status", func() {
			s := dev.Status()

			Expect(s.Ready()).To(BeTrue())
			Expect(s.Failed()).To(BeFalse())
			Expect(s.String()).To(HavePrefix("pass, ready"))
		})

		It("should program, read and erase a page", func() {
			addr := uint64(70) << 12
			data := []byte("memctl")

			Expect(dev.PageProgram(addr, false, data).Failed()).To(BeFalse())

			buf := make([]byte, len(data)+1)
			dev.PageRead(addr, false, buf)
			Expect(buf).To(Equal(append([]byte("memctl"), 0xFF)))

			Expect(dev.BlockErase(addr).Failed()).To(BeFalse())

			dev.PageRead(addr, false, buf)
			Expect(buf).To(Equal([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
			Expect(sim.Faults()).To(BeEmpty())
		})

		It("should address the spare area separately", func() {
			addr := uint64(3) << 12

			dev.PageProgram(addr, true, []byte{0x00})

			buf := make([]byte, 1)
			dev.PageRead(addr, false, buf)
			Expect(buf).To(Equal([]byte{0xFF}))

			dev.PageRead(addr, true, buf)
			Expect(buf).To(Equal([]byte{0x00}))
		})

		It("should only clear bits when programming twice", func() {
			addr := uint64(5) << 12

			dev.PageProgram(addr, false, []byte{0xF0})
			dev.PageProgram(addr, false, []byte{0x3C})

			buf := make([]byte, 1)
			dev.PageRead(addr, false, buf)
			Expect(buf).To(Equal([]byte{0x30}))
		})

		It("should report the page size", func() {
			Expect(dev.PageSize()).To(Equal(4096))
		})
	})

	Context("when the build is rejected", func() {
		It("should reject a bus of another width", func() {
			wide := devices.S34ML08G3
			wide.Cfg.DataWidth = 16

			_, err := nand.New(sim, bus, wide)

			Expect(err).To(MatchError(nand.ErrBusMismatch))
		})

		It("should reject a bus that was never validated", func() {
			_, err := nand.New(sim, pins.Nand{}, devices.S34ML08G3)

			Expect(err).To(MatchError(nand.ErrBusMismatch))
		})

		It("should reject an unsupported width", func() {
			odd := devices.S34ML08G3
			odd.Cfg.DataWidth = 32

			_, err := nand.NewUnchecked(sim, odd)

			Expect(err).To(MatchError(nand.ErrInvalidConfig))
		})

		It("should reject a missing peripheral", func() {
			_, err := nand.NewUnchecked(nil, devices.S34ML08G3)

			Expect(err).To(MatchError(nand.ErrInvalidConfig))
		})
	})
})

var _ = Describe("Command", func() {
	It("should print its name", func() {
		Expect(nand.CmdReadParameterPage.String()).To(Equal("READ PARAMETER PAGE"))
		Expect(nand.Command(0x42).String()).To(Equal("CMD(0x42)"))
	})
})
