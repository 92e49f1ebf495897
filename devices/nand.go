package devices

import (
	"time"

	"github.com/sarchlab/memctl/nand"
)

// S34ML08G3 is the SkyHigh S34ML08G3, 8 Gbit, 8 bits wide, 4 KiB pages.
var S34ML08G3 = nand.Descriptor{
	Part:   "S34ML08G3",
	Vendor: "SkyHigh Memory",
	Cfg: nand.Config{
		DataWidth:  8,
		ColumnBits: 12,
	},
	Tim: nand.Timing{
		ChipEnableSetup: 15 * time.Nanosecond,
		DataSetup:       7 * time.Nanosecond,
		AleHold:         2 * time.Nanosecond,
		CleHold:         2 * time.Nanosecond,
		AleToRead:       3 * time.Nanosecond,
		CleToRead:       3 * time.Nanosecond,
		ReadPulse:       10 * time.Nanosecond,
		WritePulse:      10 * time.Nanosecond,
		ReadCycle:       20 * time.Nanosecond,
		WriteCycle:      20 * time.Nanosecond,
		WriteToBusy:     35 * time.Nanosecond,
	},
}
