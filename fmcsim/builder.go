package fmcsim

import (
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/timing"
)

// Builder can build simulated controllers.
type Builder struct {
	kernel    timing.Freq
	busyReads int
	clock     *Clock
	sdram     [2]*SdramRequirements
	nand      *NandGeometry
}

// MakeBuilder creates a builder with default configuration: a 200 MHz
// kernel clock and no parts attached.
func MakeBuilder() Builder {
	return Builder{
		kernel:    200 * timing.MHz,
		busyReads: 2,
	}
}

// WithKernelClock sets the clock reported by SourceClock.
func (b Builder) WithKernelClock(f timing.Freq) Builder {
	b.kernel = f
	return b
}

// WithBusyReads sets how many reads of SDSR report BUSY after each command.
// A negative value keeps BUSY set forever.
func (b Builder) WithBusyReads(n int) Builder {
	b.busyReads = n
	return b
}

// WithClock shares a virtual clock with the controller.
func (b Builder) WithClock(c *Clock) Builder {
	b.clock = c
	return b
}

// WithSdram attaches an SDRAM part to a bank.
func (b Builder) WithSdram(bank fmc.SdramBank, req SdramRequirements) Builder {
	if !bank.Valid() {
		panic("invalid SDRAM bank")
	}

	b.sdram[bank-1] = &req

	return b
}

// WithNand attaches a NAND part to bank 3.
func (b Builder) WithNand(geo NandGeometry) Builder {
	b.nand = &geo
	return b
}

// Build creates the controller.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		name:      name,
		kernel:    b.kernel,
		clock:     b.clock,
		regs:      make(map[fmc.Offset]uint32),
		busyReads: b.busyReads,
	}

	if c.clock == nil {
		c.clock = NewClock()
	}

	if c.busyReads < 0 {
		c.busyReads = int(^uint(0) >> 1)
	}

	for i, req := range b.sdram {
		if req != nil {
			c.sdram[i] = NewSdramModel(*req)
		}
	}

	if b.nand != nil {
		c.nand = NewNandModel(*b.nand)
	}

	return c
}
