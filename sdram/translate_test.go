package sdram_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/sdram"
	"github.com/sarchlab/memctl/timing"
)

// testTiming is a typical 64 ms / 8192 row part.
func testTiming() sdram.Timing {
	return sdram.Timing{
		StartupDelay:      100 * time.Microsecond,
		MaxSdClock:        133 * timing.MHz,
		RefreshWindow:     64 * time.Millisecond,
		RefreshRows:       8192,
		ModeRegisterSet:   2,
		ExitSelfRefresh:   70 * time.Nanosecond,
		ActiveToPrecharge: 42 * time.Nanosecond,
		RowCycle:          60 * time.Nanosecond,
		RowPrecharge:      18 * time.Nanosecond,
		RowToColumn:       18 * time.Nanosecond,
		RowToRow:          12 * time.Nanosecond,
		WriteRecovery:     12 * time.Nanosecond,
	}
}

var _ = Describe("Translate", func() {
	var (
		t     sdram.Timing
		sdclk timing.Freq
	)

	BeforeEach(func() {
		t = testTiming()
		sdclk = 100 * timing.MHz
	})

	It("should round delays up to whole cycles", func() {
		r, err := sdram.Translate(t, sdclk)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.TRP).To(Equal(uint64(2)))
		Expect(r.TRCD).To(Equal(uint64(2)))
		Expect(r.TRAS).To(Equal(uint64(5)))
		Expect(r.TRC).To(Equal(uint64(6)))
		Expect(r.TXSR).To(Equal(uint64(7)))
		Expect(r.TMRD).To(Equal(uint64(2)))
	})

	It("should keep the refresh interval within the part's", func() {
		r, err := sdram.Translate(t, sdclk)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.RefreshCount).To(Equal(uint64(761)))
		Expect(r.RefreshCount).To(BeNumerically("<=", 781))
	})

	It("should derive write recovery from the other delays", func() {
		t.WriteRecovery = time.Nanosecond

		r, err := sdram.Translate(t, sdclk)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.TWR).To(BeNumerically(">=", r.TRAS-r.TRCD))
		Expect(r.TWR).To(BeNumerically(">=", r.TRC-r.TRCD-r.TRP))
		Expect(r.TWR).To(Equal(uint64(3)))
	})

	It("should fold tRRD into TRC", func() {
		t.RowToRow = 80 * time.Nanosecond

		r, err := sdram.Translate(t, sdclk)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.TRC).To(Equal(uint64(8)))
	})

	It("should accept the largest delay that fits a field", func() {
		t.ActiveToPrecharge = 160 * time.Nanosecond

		r, err := sdram.Translate(t, sdclk)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.TRAS).To(Equal(uint64(16)))
	})

	It("should reject a delay one nanosecond too long", func() {
		t.ActiveToPrecharge = 161 * time.Nanosecond

		_, err := sdram.Translate(t, sdclk)

		var rangeErr *timing.RangeError
		Expect(errors.As(err, &rangeErr)).To(BeTrue())
		Expect(rangeErr.Field).To(Equal("TRAS"))
		Expect(rangeErr.Cycles).To(Equal(uint64(17)))
		Expect(err).To(MatchError(timing.ErrOutOfRange))
	})

	It("should reject a refresh interval too short for the counter", func() {
		t.RefreshRows = 1 << 20

		_, err := sdram.Translate(t, sdclk)

		Expect(err).To(MatchError(timing.ErrOutOfRange))
	})

	It("should reject a part without a refresh window", func() {
		t.RefreshRows = 0

		_, err := sdram.Translate(t, sdclk)

		Expect(err).To(MatchError(sdram.ErrInvalidConfig))
	})

	It("should give the same answer every time", func() {
		a, errA := sdram.Translate(t, sdclk)
		b, errB := sdram.Translate(t, sdclk)

		Expect(errA).ToNot(HaveOccurred())
		Expect(errB).ToNot(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("should round holds up to microseconds", func() {
		r, _ := sdram.Translate(t, sdclk)

		Expect(r.StartupHold).To(Equal(100 * time.Microsecond))
		Expect(r.PrechargeHold).To(Equal(time.Microsecond))
		Expect(r.RefreshHold).To(Equal(time.Microsecond))
		Expect(r.ModeHold).To(Equal(time.Microsecond))
		Expect(r.AutoRefreshCommands).To(Equal(8))
	})
})

var _ = Describe("TranslateKernel", func() {
	var (
		cfg sdram.Config
		t   sdram.Timing
	)

	BeforeEach(func() {
		cfg = devices.AS4C16M32MSA6.Config()
		cfg.SdClockDivide = 2

		t = testTiming()
		t.RefreshWindow = 100 * time.Microsecond
		t.RefreshRows = 1
	})

	It("should count refresh cycles on the exact kernel clock", func() {
		kernel := timing.Freq(1_999_999)

		r, err := sdram.TranslateKernel(cfg, t, kernel)
		Expect(err).ToNot(HaveOccurred())
		Expect(r.Clock).To(Equal(1 * timing.MHz))
		Expect(r.RefreshCount).To(Equal(uint64(99 - sdram.RefreshMargin)))

		rounded, err := sdram.Translate(t, r.Clock)
		Expect(err).ToNot(HaveOccurred())
		Expect(rounded.RefreshCount).To(Equal(uint64(100 - sdram.RefreshMargin)))
	})

	It("should match Translate when the kernel divides evenly", func() {
		a, err := sdram.TranslateKernel(cfg, testTiming(), 200*timing.MHz)
		Expect(err).ToNot(HaveOccurred())

		b, err := sdram.Translate(testTiming(), 100*timing.MHz)
		Expect(err).ToNot(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("should reject a kernel clock above the part's maximum", func() {
		_, err := sdram.TranslateKernel(cfg, testTiming(), 300*timing.MHz)

		Expect(err).To(MatchError(sdram.ErrClockTooFast))
	})
})

var _ = Describe("SdClock", func() {
	cfg := devices.AS4C16M32MSA6.Config()

	It("should divide the kernel clock", func() {
		f, err := sdram.SdClock(cfg, testTiming(), 200*timing.MHz)

		Expect(err).ToNot(HaveOccurred())
		Expect(f).To(Equal(100 * timing.MHz))
	})

	It("should reject a clock above the part's maximum", func() {
		_, err := sdram.SdClock(cfg, testTiming(), 300*timing.MHz)

		Expect(err).To(MatchError(sdram.ErrClockTooFast))
	})

	It("should reject a zero kernel clock", func() {
		_, err := sdram.SdClock(cfg, testTiming(), 0)

		Expect(err).To(MatchError(sdram.ErrInvalidConfig))
	})
})

var _ = Describe("Config", func() {
	It("should accept every catalog part", func() {
		for _, name := range devices.SdramNames() {
			chip, err := devices.Sdram(name)
			Expect(err).ToNot(HaveOccurred())
			Expect(chip.Config().Validate()).To(Succeed(), name)
		}
	})

	DescribeTable("should reject unsupported geometry",
		func(modify func(*sdram.Config), field string) {
			cfg := devices.AS4C16M32MSA6.Config()
			modify(&cfg)

			err := cfg.Validate()

			var cfgErr *sdram.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal(field))
			Expect(err).To(MatchError(sdram.ErrInvalidConfig))
		},
		Entry("columns", func(c *sdram.Config) { c.ColumnBits = 12 }, "ColumnBits"),
		Entry("rows", func(c *sdram.Config) { c.RowBits = 10 }, "RowBits"),
		Entry("width", func(c *sdram.Config) { c.MemoryDataWidth = 24 }, "MemoryDataWidth"),
		Entry("banks", func(c *sdram.Config) { c.InternalBanks = 8 }, "InternalBanks"),
		Entry("CAS", func(c *sdram.Config) { c.CasLatency = 0 }, "CasLatency"),
		Entry("divider", func(c *sdram.Config) { c.SdClockDivide = 1 }, "SdClockDivide"),
		Entry("pipe", func(c *sdram.Config) { c.ReadPipeDelay = 3 }, "ReadPipeDelay"),
	)
})

var _ = Describe("Region", func() {
	It("should compute the capacity from the geometry", func() {
		cfg := sdram.Config{
			ColumnBits:      9,
			RowBits:         13,
			MemoryDataWidth: 32,
			InternalBanks:   4,
		}

		Expect(sdram.Capacity(cfg)).To(Equal(uint64(64 << 20)))
	})

	It("should place bank 2 at 0xD0000000", func() {
		r := sdram.RegionFor(fmc.SdramBank2, devices.AS4C16M32MSA6.Config())

		Expect(r.Base).To(Equal(uintptr(0xD000_0000)))
		Expect(r.Contains(0xD3FF_FFFF)).To(BeTrue())
		Expect(r.Contains(0xD400_0000)).To(BeFalse())
		Expect(r.String()).To(Equal("0xd0000000-0xd3ffffff (64 MiB)"))
	})
})

var _ = Describe("ModeRegister", func() {
	It("should decode its fields", func() {
		m := sdram.BurstLength4 | sdram.BurstTypeInterleaved | sdram.CasLatency2

		Expect(m.BurstLength()).To(Equal(4))
		Expect(m.CasLatency()).To(Equal(uint8(2)))
		Expect(m.Interleaved()).To(BeTrue())
		Expect(m.SingleWrite()).To(BeFalse())
	})
})
