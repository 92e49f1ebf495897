package nand

import "time"

// A Chip describes one NAND flash part.
type Chip interface {
	Name() string
	Config() Config
	Timing() Timing
}

// Config is the interface geometry of a part.
type Config struct {
	// DataWidth is the I/O width, 8 or 16.
	DataWidth uint8

	// ColumnBits is the number of address bits that select a byte within a
	// page. Pages usually hold 2^ColumnBits data bytes.
	ColumnBits uint8
}

// Timing is the part's asynchronous interface timing.
type Timing struct {
	ChipEnableSetup time.Duration // tCS
	DataSetup       time.Duration // tDS
	AleHold         time.Duration // tALH
	CleHold         time.Duration // tCLH
	AleToRead       time.Duration // tAR
	CleToRead       time.Duration // tCLR
	ReadPulse       time.Duration // tRP
	WritePulse      time.Duration // tWP
	ReadCycle       time.Duration // tRC
	WriteCycle      time.Duration // tWC
	WriteToBusy     time.Duration // tWB
}

// Descriptor is a Chip made of plain values.
type Descriptor struct {
	Part   string
	Vendor string
	Cfg    Config
	Tim    Timing
}

// Name returns the part number.
func (d Descriptor) Name() string { return d.Part }

// Config returns the part's configuration.
func (d Descriptor) Config() Config { return d.Cfg }

// Timing returns the part's timing.
func (d Descriptor) Timing() Timing { return d.Tim }

var _ Chip = Descriptor{}
