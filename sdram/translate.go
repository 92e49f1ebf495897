package sdram

import (
	"time"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/timing"
)

// Each SDTR field stores cycles minus one in four bits.
var (
	fieldTMRD = timing.Field{Name: "TMRD", Min: 1, Max: 16}
	fieldTXSR = timing.Field{Name: "TXSR", Min: 1, Max: 16}
	fieldTRAS = timing.Field{Name: "TRAS", Min: 1, Max: 16}
	fieldTRC  = timing.Field{Name: "TRC", Min: 1, Max: 16}
	fieldTWR  = timing.Field{Name: "TWR", Min: 1, Max: 16}
	fieldTRP  = timing.Field{Name: "TRP", Min: 1, Max: 16}
	fieldTRCD = timing.Field{Name: "TRCD", Min: 1, Max: 16}

	fieldCOUNT = timing.Field{Name: "COUNT", Min: 41, Max: 8191}
)

// RefreshMargin is subtracted from the refresh counter so that a refresh
// request delayed by an ongoing access still lands within the interval.
const RefreshMargin = 20

// TimingRegisters is a Timing translated to an SD clock.
type TimingRegisters struct {
	Clock timing.Freq

	// Cycle counts, each 1 to 16. TRC also covers tRRD.
	TMRD, TXSR, TRAS, TRC, TWR, TRP, TRCD uint64

	// RefreshCount is the refresh timer reload value.
	RefreshCount uint64

	// Holds applied by the power-up sequence, rounded up to whole
	// microseconds.
	StartupHold   time.Duration
	PrechargeHold time.Duration
	RefreshHold   time.Duration
	ModeHold      time.Duration

	AutoRefreshCommands int
}

// Validate checks the configuration against what the controller supports.
func (c Config) Validate() error {
	switch {
	case c.ColumnBits < 8 || c.ColumnBits > 11:
		return configErr("ColumnBits", c.ColumnBits, "must be 8 to 11")
	case c.RowBits < 11 || c.RowBits > 13:
		return configErr("RowBits", c.RowBits, "must be 11 to 13")
	case c.MemoryDataWidth != 8 && c.MemoryDataWidth != 16 &&
		c.MemoryDataWidth != 32:
		return configErr("MemoryDataWidth", c.MemoryDataWidth,
			"must be 8, 16 or 32")
	case c.InternalBanks != 2 && c.InternalBanks != 4:
		return configErr("InternalBanks", c.InternalBanks, "must be 2 or 4")
	case c.CasLatency < 1 || c.CasLatency > 3:
		return configErr("CasLatency", c.CasLatency, "must be 1 to 3")
	case c.SdClockDivide < 2 || c.SdClockDivide > 3:
		return configErr("SdClockDivide", c.SdClockDivide, "must be 2 or 3")
	case c.ReadPipeDelay > 2:
		return configErr("ReadPipeDelay", c.ReadPipeDelay, "must be 0 to 2")
	}

	return nil
}

// SdClock returns the SD clock that a kernel clock yields for the
// configuration, and checks it against the part's maximum.
func SdClock(c Config, t Timing, kernel timing.Freq) (timing.Freq, error) {
	if kernel == 0 {
		return 0, configErr("KernelClock", kernel, "must not be zero")
	}

	if c.SdClockDivide < 2 || c.SdClockDivide > 3 {
		return 0, configErr("SdClockDivide", c.SdClockDivide, "must be 2 or 3")
	}

	sdclk := kernel.Div(uint64(c.SdClockDivide))
	if t.MaxSdClock != 0 && sdclk > t.MaxSdClock {
		return 0, &ConfigError{
			Field:  "SdClock",
			Value:  sdclk,
			Reason: "above " + t.MaxSdClock.String(),
			Err:    ErrClockTooFast,
		}
	}

	return sdclk, nil
}

func ns(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}

	return uint64(d.Nanoseconds())
}

// Translate converts the timing of a part into register values for the given
// SD clock. Every delay is rounded up to whole cycles; a delay that needs
// more cycles than its field holds is a *timing.RangeError. The refresh
// counter is rounded down so the real interval never exceeds the part's.
//
// Translate has no side effects.
func Translate(t Timing, sdclk timing.Freq) (TimingRegisters, error) {
	if sdclk == 0 {
		return TimingRegisters{}, configErr("SdClock", sdclk, "must not be zero")
	}

	return translate(t, sdclk, sdclk.CyclesAtMost)
}

// TranslateKernel is Translate for the SD clock that kernel yields under c.
// The refresh counter is counted on kernel cycles divided by SdClockDivide,
// so a kernel clock that does not divide evenly never stretches the
// refresh interval.
func TranslateKernel(
	c Config,
	t Timing,
	kernel timing.Freq,
) (TimingRegisters, error) {
	sdclk, err := SdClock(c, t, kernel)
	if err != nil {
		return TimingRegisters{}, err
	}

	div := uint64(c.SdClockDivide)

	return translate(t, sdclk, func(ns uint64) uint64 {
		return kernel.CyclesAtMost(ns) / div
	})
}

func translate(
	t Timing,
	sdclk timing.Freq,
	cyclesWithin func(ns uint64) uint64,
) (TimingRegisters, error) {
	r := TimingRegisters{Clock: sdclk, AutoRefreshCommands: t.Refreshes()}

	var err error

	if r.TRCD, err = fieldTRCD.Cycles(ns(t.RowToColumn), sdclk); err != nil {
		return TimingRegisters{}, err
	}

	if r.TRP, err = fieldTRP.Cycles(ns(t.RowPrecharge), sdclk); err != nil {
		return TimingRegisters{}, err
	}

	if r.TRAS, err = fieldTRAS.Cycles(ns(t.ActiveToPrecharge), sdclk); err != nil {
		return TimingRegisters{}, err
	}

	if r.TXSR, err = fieldTXSR.Cycles(ns(t.ExitSelfRefresh), sdclk); err != nil {
		return TimingRegisters{}, err
	}

	if r.TRC, err = rowCycle(t, sdclk); err != nil {
		return TimingRegisters{}, err
	}

	if r.TMRD, err = fieldTMRD.Check(uint64(t.ModeRegisterSet)); err != nil {
		return TimingRegisters{}, err
	}

	if r.TWR, err = writeRecovery(t, r, sdclk); err != nil {
		return TimingRegisters{}, err
	}

	if r.RefreshCount, err = refreshCount(t, cyclesWithin); err != nil {
		return TimingRegisters{}, err
	}

	r.StartupHold = fmc.CeilMicrosecond(t.StartupDelay)
	r.PrechargeHold = fmc.CeilMicrosecond(sdclk.DurationForCycles(r.TRP))
	r.RefreshHold = fmc.CeilMicrosecond(sdclk.DurationForCycles(r.TRC))
	r.ModeHold = fmc.CeilMicrosecond(sdclk.DurationForCycles(r.TMRD))

	return r, nil
}

// rowCycle covers tRC and tRRD, which share the TRC field.
func rowCycle(t Timing, sdclk timing.Freq) (uint64, error) {
	trc, err := fieldTRC.Cycles(ns(t.RowCycle), sdclk)
	if err != nil {
		return 0, err
	}

	trrd, err := fieldTRC.Cycles(ns(t.RowToRow), sdclk)
	if err != nil {
		return 0, err
	}

	return max(trc, trrd), nil
}

// writeRecovery takes the part's tWR and the controller's own constraints:
// TWR >= TRAS - TRCD and TWR >= TRC - TRCD - TRP.
func writeRecovery(
	t Timing,
	r TimingRegisters,
	sdclk timing.Freq,
) (uint64, error) {
	declared, err := fieldTWR.Cycles(ns(t.WriteRecovery), sdclk)
	if err != nil {
		return 0, err
	}

	twr := int64(declared)
	twr = max(twr, int64(r.TRAS)-int64(r.TRCD))
	twr = max(twr, int64(r.TRC)-int64(r.TRCD)-int64(r.TRP))

	return fieldTWR.Check(uint64(twr))
}

func refreshCount(t Timing, cyclesWithin func(uint64) uint64) (uint64, error) {
	interval := t.RefreshInterval()
	if interval <= 0 {
		return 0, configErr("RefreshWindow", t.RefreshWindow,
			"needs a window and a row count")
	}

	cycles := cyclesWithin(ns(interval))
	if cycles < RefreshMargin {
		return fieldCOUNT.Check(0)
	}

	return fieldCOUNT.Check(cycles - RefreshMargin)
}
