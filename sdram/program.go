package sdram

import "github.com/sarchlab/memctl/fmc"

func widthCode(width uint8) uint32 {
	switch width {
	case 8:
		return 0
	case 16:
		return 1
	default:
		return 2
	}
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}

	return 0
}

// program writes the control and timing registers of a bank. SDCLK, RBURST
// and RPIPE are only taken from SDCR1, and TRC and TRP only from SDTR1,
// whichever bank is used. The writes have no ordering among themselves.
func program(
	r fmc.Registers,
	bank fmc.SdramBank,
	c Config,
	t TimingRegisters,
) {
	fmc.Modify(r, fmc.SDCR1,
		fmc.SdcrSDCLK.Is(uint32(c.SdClockDivide)),
		fmc.SdcrRBURST.Flag(c.ReadBurst),
		fmc.SdcrRPIPE.Is(uint32(c.ReadPipeDelay)),
	)

	fmc.Modify(r, bank.Control(),
		fmc.SdcrNC.Is(uint32(c.ColumnBits-8)),
		fmc.SdcrNR.Is(uint32(c.RowBits-11)),
		fmc.SdcrMWID.Is(widthCode(c.MemoryDataWidth)),
		fmc.SdcrNB.Is(boolBit(c.InternalBanks == 4)),
		fmc.SdcrCAS.Is(uint32(c.CasLatency)),
		fmc.SdcrWP.Flag(c.WriteProtection),
	)

	fmc.Modify(r, fmc.SDTR1,
		fmc.SdtrTRC.Is(uint32(t.TRC-1)),
		fmc.SdtrTRP.Is(uint32(t.TRP-1)),
	)

	fmc.Modify(r, bank.Timing(),
		fmc.SdtrTRCD.Is(uint32(t.TRCD-1)),
		fmc.SdtrTWR.Is(uint32(t.TWR-1)),
		fmc.SdtrTRAS.Is(uint32(t.TRAS-1)),
		fmc.SdtrTXSR.Is(uint32(t.TXSR-1)),
		fmc.SdtrTMRD.Is(uint32(t.TMRD-1)),
	)
}
