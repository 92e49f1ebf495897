package fmc

import "fmt"

// Offset is a byte offset into the controller's register block.
type Offset uint32

// Register offsets. See RM0433 Section 22.9.
const (
	BCR1  Offset = 0x000 // SRAM/NOR chip-select control 1, holds FMCEN
	PCR   Offset = 0x080 // NAND control
	SR    Offset = 0x084 // NAND FIFO status and interrupt
	PMEM  Offset = 0x088 // NAND common memory space timing
	PATT  Offset = 0x08C // NAND attribute memory space timing
	ECCR  Offset = 0x094 // NAND ECC result
	SDCR1 Offset = 0x140 // SDRAM control, bank 1
	SDCR2 Offset = 0x144 // SDRAM control, bank 2
	SDTR1 Offset = 0x148 // SDRAM timing, bank 1
	SDTR2 Offset = 0x14C // SDRAM timing, bank 2
	SDCMR Offset = 0x150 // SDRAM command mode
	SDRTR Offset = 0x154 // SDRAM refresh timer
	SDSR  Offset = 0x158 // SDRAM status
)

var offsetNames = map[Offset]string{
	BCR1:  "BCR1",
	PCR:   "PCR",
	SR:    "SR",
	PMEM:  "PMEM",
	PATT:  "PATT",
	ECCR:  "ECCR",
	SDCR1: "SDCR1",
	SDCR2: "SDCR2",
	SDTR1: "SDTR1",
	SDTR2: "SDTR2",
	SDCMR: "SDCMR",
	SDRTR: "SDRTR",
	SDSR:  "SDSR",
}

func (o Offset) String() string {
	if n, ok := offsetNames[o]; ok {
		return n
	}

	return fmt.Sprintf("0x%03x", uint32(o))
}

// BCR1 fields.
var (
	BcrFMCEN = Field{Name: "FMCEN", Shift: 31, Width: 1}
)

// SDCR fields. NC to WP are per bank, SDCLK, RBURST and RPIPE exist in SDCR1
// only and apply to both banks.
var (
	SdcrNC     = Field{Name: "NC", Shift: 0, Width: 2}
	SdcrNR     = Field{Name: "NR", Shift: 2, Width: 2}
	SdcrMWID   = Field{Name: "MWID", Shift: 4, Width: 2}
	SdcrNB     = Field{Name: "NB", Shift: 6, Width: 1}
	SdcrCAS    = Field{Name: "CAS", Shift: 7, Width: 2}
	SdcrWP     = Field{Name: "WP", Shift: 9, Width: 1}
	SdcrSDCLK  = Field{Name: "SDCLK", Shift: 10, Width: 2}
	SdcrRBURST = Field{Name: "RBURST", Shift: 12, Width: 1}
	SdcrRPIPE  = Field{Name: "RPIPE", Shift: 13, Width: 2}
)

// SDTR fields, each holding cycles minus one. TRC and TRP exist in SDTR1
// only and apply to both banks.
var (
	SdtrTMRD = Field{Name: "TMRD", Shift: 0, Width: 4}
	SdtrTXSR = Field{Name: "TXSR", Shift: 4, Width: 4}
	SdtrTRAS = Field{Name: "TRAS", Shift: 8, Width: 4}
	SdtrTRC  = Field{Name: "TRC", Shift: 12, Width: 4}
	SdtrTWR  = Field{Name: "TWR", Shift: 16, Width: 4}
	SdtrTRP  = Field{Name: "TRP", Shift: 20, Width: 4}
	SdtrTRCD = Field{Name: "TRCD", Shift: 24, Width: 4}
)

// SDCMR fields.
var (
	SdcmrMODE = Field{Name: "MODE", Shift: 0, Width: 3}
	SdcmrCTB2 = Field{Name: "CTB2", Shift: 3, Width: 1}
	SdcmrCTB1 = Field{Name: "CTB1", Shift: 4, Width: 1}
	SdcmrNRFS = Field{Name: "NRFS", Shift: 5, Width: 4}
	SdcmrMRD  = Field{Name: "MRD", Shift: 9, Width: 14}
)

// SDRTR fields.
var (
	SdrtrCRE   = Field{Name: "CRE", Shift: 0, Width: 1}
	SdrtrCOUNT = Field{Name: "COUNT", Shift: 1, Width: 13}
	SdrtrREIE  = Field{Name: "REIE", Shift: 14, Width: 1}
)

// SDSR fields.
var (
	SdsrRE     = Field{Name: "RE", Shift: 0, Width: 1}
	SdsrMODES1 = Field{Name: "MODES1", Shift: 1, Width: 2}
	SdsrMODES2 = Field{Name: "MODES2", Shift: 3, Width: 2}
	SdsrBUSY   = Field{Name: "BUSY", Shift: 5, Width: 1}
)

// PCR fields.
var (
	PcrPWAITEN = Field{Name: "PWAITEN", Shift: 1, Width: 1}
	PcrPBKEN   = Field{Name: "PBKEN", Shift: 2, Width: 1}
	PcrPTYP    = Field{Name: "PTYP", Shift: 3, Width: 1}
	PcrPWID    = Field{Name: "PWID", Shift: 4, Width: 2}
	PcrECCEN   = Field{Name: "ECCEN", Shift: 6, Width: 1}
	PcrTCLR    = Field{Name: "TCLR", Shift: 9, Width: 4}
	PcrTAR     = Field{Name: "TAR", Shift: 13, Width: 4}
	PcrECCPS   = Field{Name: "ECCPS", Shift: 17, Width: 3}
)

// PMEM fields. PATT uses the same layout.
var (
	PmemSET  = Field{Name: "SET", Shift: 0, Width: 8}
	PmemWAIT = Field{Name: "WAIT", Shift: 8, Width: 8}
	PmemHOLD = Field{Name: "HOLD", Shift: 16, Width: 8}
	PmemHIZ  = Field{Name: "HIZ", Shift: 24, Width: 8}
)

// SdramMode is the MODE field of SDCMR.
type SdramMode uint32

// SDRAM commands.
const (
	ModeNormal SdramMode = iota
	ModeClockEnable
	ModePrechargeAll
	ModeAutoRefresh
	ModeLoadMode
	ModeSelfRefresh
	ModePowerDown
)

func (m SdramMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeClockEnable:
		return "CLK_ENABLE"
	case ModePrechargeAll:
		return "PALL"
	case ModeAutoRefresh:
		return "AUTOREFRESH"
	case ModeLoadMode:
		return "LOAD_MODE"
	case ModeSelfRefresh:
		return "SELF_REFRESH"
	case ModePowerDown:
		return "POWER_DOWN"
	}

	return fmt.Sprintf("MODE(%d)", uint32(m))
}

// SdramStatus is the MODESx field of SDSR.
type SdramStatus uint32

// SDRAM status modes.
const (
	StatusNormal SdramStatus = iota
	StatusSelfRefresh
	StatusPowerDown
)
