package sdram

import (
	"fmt"
	"strings"

	"github.com/sarchlab/memctl/fmc"
)

// A Snapshot is the decoded register state of one bank, for comparing with
// vendor configuration tools. Cycle counts are in cycles, not the minus-one
// encoding of the registers.
type Snapshot struct {
	Bank fmc.SdramBank

	ColumnBits    uint32
	RowBits       uint32
	DataWidth     uint32
	InternalBanks uint32
	CasLatency    uint32
	WriteProtect  bool
	SdClockDivide uint32
	ReadBurst     bool
	ReadPipe      uint32

	TMRD, TXSR, TRAS, TRC, TWR, TRP, TRCD uint32

	RefreshCount uint32
	Status       fmc.SdramStatus
	Busy         bool
}

// Snapshot reads back the registers of the controller's bank. It has no
// effect on the hardware.
func (c *Comp) Snapshot() Snapshot {
	return ReadSnapshot(c.periph.Registers(), c.bank)
}

// ReadSnapshot decodes the registers of a bank.
func ReadSnapshot(r fmc.Registers, bank fmc.SdramBank) Snapshot {
	cr1 := r.Read(fmc.SDCR1)
	cr := r.Read(bank.Control())
	tr1 := r.Read(fmc.SDTR1)
	tr := r.Read(bank.Timing())
	rtr := r.Read(fmc.SDRTR)
	sr := r.Read(fmc.SDSR)

	status := fmc.SdsrMODES1.Get(sr)
	if bank == fmc.SdramBank2 {
		status = fmc.SdsrMODES2.Get(sr)
	}

	banks := uint32(2)
	if fmc.SdcrNB.Get(cr) == 1 {
		banks = 4
	}

	return Snapshot{
		Bank:          bank,
		ColumnBits:    fmc.SdcrNC.Get(cr) + 8,
		RowBits:       fmc.SdcrNR.Get(cr) + 11,
		DataWidth:     8 << fmc.SdcrMWID.Get(cr),
		InternalBanks: banks,
		CasLatency:    fmc.SdcrCAS.Get(cr),
		WriteProtect:  fmc.SdcrWP.Get(cr) == 1,
		SdClockDivide: fmc.SdcrSDCLK.Get(cr1),
		ReadBurst:     fmc.SdcrRBURST.Get(cr1) == 1,
		ReadPipe:      fmc.SdcrRPIPE.Get(cr1),
		TMRD:          fmc.SdtrTMRD.Get(tr) + 1,
		TXSR:          fmc.SdtrTXSR.Get(tr) + 1,
		TRAS:          fmc.SdtrTRAS.Get(tr) + 1,
		TRC:           fmc.SdtrTRC.Get(tr1) + 1,
		TWR:           fmc.SdtrTWR.Get(tr) + 1,
		TRP:           fmc.SdtrTRP.Get(tr1) + 1,
		TRCD:          fmc.SdtrTRCD.Get(tr) + 1,
		RefreshCount:  fmc.SdrtrCOUNT.Get(rtr),
		Status:        fmc.SdramStatus(status),
		Busy:          fmc.SdsrBUSY.Get(sr) == 1,
	}
}

func (s Snapshot) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %d cols, %d rows, %d banks, %d bits, CAS %d",
		s.Bank, s.ColumnBits, s.RowBits, s.InternalBanks, s.DataWidth,
		s.CasLatency)

	if s.WriteProtect {
		b.WriteString(", write protected")
	}

	fmt.Fprintf(&b, "\n  SDCLK /%d, RBURST %t, RPIPE %d",
		s.SdClockDivide, s.ReadBurst, s.ReadPipe)
	fmt.Fprintf(&b, "\n  TMRD %d TXSR %d TRAS %d TRC %d TWR %d TRP %d TRCD %d",
		s.TMRD, s.TXSR, s.TRAS, s.TRC, s.TWR, s.TRP, s.TRCD)
	fmt.Fprintf(&b, "\n  refresh count %d", s.RefreshCount)

	return b.String()
}
