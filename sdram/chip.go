package sdram

import (
	"time"

	"github.com/sarchlab/memctl/timing"
)

// A Chip describes one SDRAM part. Descriptors are constant data; the driver
// only reads them while it is being built.
type Chip interface {
	// Name is the part number, for example "IS42S32800G-6".
	Name() string

	// Config returns the geometry and the controller features to use.
	Config() Config

	// Timing returns the part's timing requirements.
	Timing() Timing

	// ModeRegister returns the value loaded into the part's mode register.
	ModeRegister() ModeRegister
}

// Config is the geometry of a part and the controller features used with it.
type Config struct {
	ColumnBits      uint8 // 8 to 11
	RowBits         uint8 // 11 to 13
	MemoryDataWidth uint8 // 8, 16 or 32
	InternalBanks   uint8 // 2 or 4
	CasLatency      uint8 // 1 to 3 cycles
	WriteProtection bool

	// SdClockDivide divides the kernel clock to get the SD clock, 2 or 3.
	SdClockDivide uint8

	// ReadBurst lets the controller anticipate the next read.
	ReadBurst bool

	// ReadPipeDelay delays the read data path by 0 to 2 kernel clock
	// cycles.
	ReadPipeDelay uint8
}

// Timing is the set of delays a part requires. Everything is a minimum.
type Timing struct {
	// StartupDelay is the time between applying a valid clock and any
	// command other than COMMAND INHIBIT or NOP.
	StartupDelay time.Duration

	// MaxSdClock is the fastest SD clock the part meets its timing at.
	MaxSdClock timing.Freq

	// RefreshWindow is the time within which every one of RefreshRows rows
	// must be refreshed, typically 64 ms.
	RefreshWindow time.Duration
	RefreshRows   uint32

	// ModeRegisterSet (tMRD) is the delay from LOAD MODE REGISTER to the next
	// command, in SD clock cycles.
	ModeRegisterSet uint8

	ExitSelfRefresh   time.Duration // tXSR
	ActiveToPrecharge time.Duration // tRAS, also the minimum self-refresh time
	RowCycle          time.Duration // tRC
	RowPrecharge      time.Duration // tRP
	RowToColumn       time.Duration // tRCD
	RowToRow          time.Duration // tRRD
	WriteRecovery     time.Duration // tWR

	// AutoRefreshCommands is the number of AUTO REFRESH commands the part
	// needs during power-up. Zero means 8.
	AutoRefreshCommands uint8
}

// RefreshInterval returns the longest time allowed between two refresh
// commands, rounded down.
func (t Timing) RefreshInterval() time.Duration {
	if t.RefreshRows == 0 {
		return 0
	}

	return t.RefreshWindow / time.Duration(t.RefreshRows)
}

// Refreshes returns the number of power-up AUTO REFRESH commands.
func (t Timing) Refreshes() int {
	if t.AutoRefreshCommands == 0 {
		return 8
	}

	return int(t.AutoRefreshCommands)
}

// Descriptor is a Chip made of plain values.
type Descriptor struct {
	Part   string
	Cfg    Config
	Tim    Timing
	Mode   ModeRegister
	Vendor string
}

// Name returns the part number.
func (d Descriptor) Name() string { return d.Part }

// Config returns the part's configuration.
func (d Descriptor) Config() Config { return d.Cfg }

// Timing returns the part's timing.
func (d Descriptor) Timing() Timing { return d.Tim }

// ModeRegister returns the part's mode register value.
func (d Descriptor) ModeRegister() ModeRegister { return d.Mode }

var _ Chip = Descriptor{}
