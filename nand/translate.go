package nand

import (
	"time"

	"github.com/sarchlab/memctl/timing"
)

// 255 is reserved in the 8-bit timing fields.
var (
	fieldSET     = timing.Field{Name: "MEMSET", Min: 0, Max: 254}
	fieldWAIT    = timing.Field{Name: "MEMWAIT", Min: 1, Max: 254}
	fieldHOLD    = timing.Field{Name: "MEMHOLD", Min: 1, Max: 254}
	fieldATTHOLD = timing.Field{Name: "ATTHOLD", Min: 1, Max: 254}
	fieldHIZ     = timing.Field{Name: "MEMHIZ", Min: 0, Max: 254}
	fieldTAR     = timing.Field{Name: "TAR", Min: 0, Max: 15}
	fieldTCLR    = timing.Field{Name: "TCLR", Min: 0, Max: 15}
)

// Registers holds the timing fields of PCR, PMEM and PATT, in the register
// encoding.
type Registers struct {
	Clock timing.Freq

	Set     uint64
	Wait    uint64
	Hold    uint64
	AttHold uint64
	HiZ     uint64
	TAR     uint64
	TCLR    uint64
}

// Translate computes the controller timing for a part clocked by the kernel
// clock, following ST application note AN4761 section 4.2. Delays are rounded
// up to whole kernel cycles.
func Translate(t Timing, kernel timing.Freq) (Registers, error) {
	cyc := func(d time.Duration) int64 {
		if d <= 0 {
			return 0
		}

		return int64(kernel.CyclesAtLeast(uint64(d.Nanoseconds())))
	}

	r := Registers{Clock: kernel}

	var err error

	// setup before nRE/nWE assertion
	setup := max(t.ChipEnableSetup, t.AleToRead, t.CleToRead)
	set := max(cyc(setup-t.WritePulse), 1) - 1
	if r.Set, err = fieldSET.Check(uint64(set)); err != nil {
		return Registers{}, err
	}

	// nRE/nWE assertion
	wait := max(cyc(max(t.ReadPulse, t.WritePulse)), 2) - 1
	if r.Wait, err = fieldWAIT.Check(uint64(wait)); err != nil {
		return Registers{}, err
	}

	// hold after deassertion, stretched to the full cycle time
	hold := max(cyc(max(t.AleHold, t.CleHold)), 1)
	cycle := cyc(max(t.ReadCycle, t.WriteCycle))
	if total := wait + 1 + hold + set + 1; total < cycle {
		hold += cycle - total
	}

	if r.Hold, err = fieldHOLD.Check(uint64(hold)); err != nil {
		return Registers{}, err
	}

	// attribute space hold covers tWB
	attHold := max(max(cyc(t.WriteToBusy), 2)-1, hold)
	if r.AttHold, err = fieldATTHOLD.Check(uint64(attHold)); err != nil {
		return Registers{}, err
	}

	hiz := cyc(t.ChipEnableSetup + t.WritePulse - t.DataSetup)
	if r.HiZ, err = fieldHIZ.Check(uint64(hiz)); err != nil {
		return Registers{}, err
	}

	tar := max(cyc(t.AleToRead)-set-2, 0)
	if r.TAR, err = fieldTAR.Check(uint64(tar)); err != nil {
		return Registers{}, err
	}

	tclr := max(cyc(t.CleToRead)-set-2, 0)
	if r.TCLR, err = fieldTCLR.Check(uint64(tclr)); err != nil {
		return Registers{}, err
	}

	return r, nil
}
