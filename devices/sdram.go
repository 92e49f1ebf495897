package devices

import (
	"time"

	"github.com/sarchlab/memctl/sdram"
	"github.com/sarchlab/memctl/timing"
)

// Mode register used by every part in the catalog except for the CAS
// latency: single accesses, sequential bursts.
const singleAccess = sdram.BurstLength1 |
	sdram.BurstTypeSequential |
	sdram.OperatingModeStandard |
	sdram.WriteBurstSingle

// AS4C16M32MSA6 is the Alliance Memory AS4C16M32MSA, speed grade 6. 512 Mbit,
// 32 bits wide.
var AS4C16M32MSA6 = sdram.Descriptor{
	Part:   "AS4C16M32MSA-6",
	Vendor: "Alliance Memory",
	Cfg: sdram.Config{
		ColumnBits:      9,
		RowBits:         13,
		MemoryDataWidth: 32,
		InternalBanks:   4,
		CasLatency:      3,
		SdClockDivide:   2,
		ReadBurst:       true,
	},
	Tim: sdram.Timing{
		StartupDelay:      200 * time.Microsecond,
		MaxSdClock:        166 * timing.MHz,
		RefreshWindow:     64 * time.Millisecond,
		RefreshRows:       8192,
		ModeRegisterSet:   2,
		ExitSelfRefresh:   80 * time.Nanosecond,
		ActiveToPrecharge: 48 * time.Nanosecond,
		RowCycle:          60 * time.Nanosecond,
		RowPrecharge:      18 * time.Nanosecond,
		RowToColumn:       18 * time.Nanosecond,
		RowToRow:          12 * time.Nanosecond,
		WriteRecovery:     12 * time.Nanosecond,
	},
	Mode: singleAccess | sdram.CasLatency3,
}

// IS42S16400J7 is the ISSI IS42S16400J, speed grade 7, run at CAS latency 2
// and at most 100 MHz. 64 Mbit, 16 bits wide.
var IS42S16400J7 = sdram.Descriptor{
	Part:   "IS42S16400J-7",
	Vendor: "ISSI",
	Cfg: sdram.Config{
		ColumnBits:      8,
		RowBits:         12,
		MemoryDataWidth: 16,
		InternalBanks:   4,
		CasLatency:      2,
		SdClockDivide:   2,
		ReadBurst:       true,
	},
	Tim: sdram.Timing{
		StartupDelay:      100 * time.Microsecond,
		MaxSdClock:        100 * timing.MHz,
		RefreshWindow:     64 * time.Millisecond,
		RefreshRows:       4096,
		ModeRegisterSet:   2,
		ExitSelfRefresh:   70 * time.Nanosecond,
		ActiveToPrecharge: 42 * time.Nanosecond,
		RowCycle:          63 * time.Nanosecond,
		RowPrecharge:      15 * time.Nanosecond,
		RowToColumn:       15 * time.Nanosecond,
		RowToRow:          14 * time.Nanosecond,
		WriteRecovery:     14 * time.Nanosecond,
	},
	Mode: singleAccess | sdram.CasLatency2,
}

// IS42S32800G6 is the ISSI IS42S32800G, speed grade 6, fitted to the
// STM32H747I-DISCO board. 256 Mbit, 32 bits wide.
var IS42S32800G6 = sdram.Descriptor{
	Part:   "IS42S32800G-6",
	Vendor: "ISSI",
	Cfg: sdram.Config{
		ColumnBits:      9,
		RowBits:         12,
		MemoryDataWidth: 32,
		InternalBanks:   4,
		CasLatency:      3,
		SdClockDivide:   2,
		ReadBurst:       true,
	},
	Tim: sdram.Timing{
		StartupDelay:      100 * time.Microsecond,
		MaxSdClock:        166 * timing.MHz,
		RefreshWindow:     64 * time.Millisecond,
		RefreshRows:       4096,
		ModeRegisterSet:   2,
		ExitSelfRefresh:   70 * time.Nanosecond,
		ActiveToPrecharge: 42 * time.Nanosecond,
		RowCycle:          60 * time.Nanosecond,
		RowPrecharge:      18 * time.Nanosecond,
		RowToColumn:       18 * time.Nanosecond,
		RowToRow:          12 * time.Nanosecond,
		WriteRecovery:     12 * time.Nanosecond,
	},
	Mode: singleAccess | sdram.CasLatency3,
}

// MT48LC4M32B26 is the Micron MT48LC4M32B2, speed grade 6. 128 Mbit, 32
// bits wide.
var MT48LC4M32B26 = sdram.Descriptor{
	Part:   "MT48LC4M32B2-6",
	Vendor: "Micron",
	Cfg: sdram.Config{
		ColumnBits:      8,
		RowBits:         12,
		MemoryDataWidth: 32,
		InternalBanks:   4,
		CasLatency:      3,
		SdClockDivide:   2,
		ReadBurst:       true,
	},
	Tim: sdram.Timing{
		StartupDelay:      100 * time.Microsecond,
		MaxSdClock:        166 * timing.MHz,
		RefreshWindow:     64 * time.Millisecond,
		RefreshRows:       4096,
		ModeRegisterSet:   2,
		ExitSelfRefresh:   70 * time.Nanosecond,
		ActiveToPrecharge: 42 * time.Nanosecond,
		RowCycle:          60 * time.Nanosecond,
		RowPrecharge:      18 * time.Nanosecond,
		RowToColumn:       18 * time.Nanosecond,
		RowToRow:          12 * time.Nanosecond,
		WriteRecovery:     12 * time.Nanosecond,
	},
	Mode: singleAccess | sdram.CasLatency3,
}
