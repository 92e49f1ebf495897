// Package sdram drives the SDRAM side of the memory controller. It programs
// the control and timing registers for one bank, runs the JEDEC power-up
// sequence, and hands back the memory window of the part.
//
// Every check happens when the controller is built. Once Init starts writing
// registers it runs to the end.
package sdram

import (
	"sync"
	"time"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/pins"
	"github.com/sarchlab/memctl/timing"
)

// Comp is the SDRAM controller. It owns the peripheral; only one Comp may
// exist per peripheral.
type Comp struct {
	*hooking.HookableBase

	periph fmc.Peripheral
	chip   Chip
	bank   fmc.SdramBank
	timing TimingRegisters
	plan   Plan

	pollLimit int

	mu     sync.Mutex
	seq    *Sequencer
	region Region
}

// New builds a controller for a part wired through a validated pin bus.
func New(p fmc.Peripheral, bus pins.Sdram, chip Chip) (*Comp, error) {
	return MakeBuilder().
		WithPeripheral(p).
		WithPins(bus).
		WithChip(chip).
		Build("SDRAM")
}

// NewUnchecked builds a controller without a pin bus. The caller is
// responsible for the pins and for choosing the bank they are wired to.
func NewUnchecked(p fmc.Peripheral, bank fmc.SdramBank, chip Chip) (*Comp, error) {
	return MakeBuilder().
		WithPeripheral(p).
		WithBank(bank).
		WithChip(chip).
		Build("SDRAM")
}

// Chip returns the part the controller drives.
func (c *Comp) Chip() Chip {
	return c.chip
}

// Bank returns the controller bank the part is on.
func (c *Comp) Bank() fmc.SdramBank {
	return c.bank
}

// Timing returns the translated register values.
func (c *Comp) Timing() TimingRegisters {
	return c.timing
}

// Plan returns the power-up sequence that Init runs.
func (c *Comp) Plan() Plan {
	return c.plan
}

// SdClock returns the SD clock the part runs at.
func (c *Comp) SdClock() timing.Freq {
	return c.timing.Clock
}

// State returns where the power-up sequence is.
func (c *Comp) State() State {
	c.mu.Lock()
	seq := c.seq
	c.mu.Unlock()

	if seq == nil {
		return StateUnconfigured
	}

	return seq.State()
}

// Region returns the memory window, valid once State is Ready.
func (c *Comp) Region() Region {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.region
}

// Init programs the controller, powers the part up and returns its memory
// window. It blocks on delay for the whole sequence, which takes at least the
// part's startup delay. Init may only be called once.
func (c *Comp) Init(delay fmc.Delay) (Region, error) {
	if delay == nil {
		return Region{}, configErr("Delay", nil, "must not be nil")
	}

	seq := NewSequencer(nil, delay, c, c.pollLimit)
	regs := fmc.Trace(c.periph.Registers(), c, seq.Elapsed)
	seq.regs = regs

	c.mu.Lock()
	if c.seq != nil {
		c.mu.Unlock()
		return Region{}, ErrAlreadyInitialized
	}

	c.seq = seq
	c.mu.Unlock()

	c.periph.Enable()
	program(regs, c.bank, c.chip.Config(), c.timing)
	c.periph.MemoryControllerEnable()

	if err := seq.Run(c.plan); err != nil {
		return Region{}, err
	}

	region := RegionFor(c.bank, c.chip.Config())

	c.mu.Lock()
	c.region = region
	c.mu.Unlock()

	return region, nil
}

// A Description is a copy of what a controller knows about itself, safe to
// take while Init runs.
type Description struct {
	Name      string
	Chip      string
	Bank      string
	State     string
	SdClock   string
	Region    string
	Timing    TimingRegisters
	Steps     int
	HoldTotal time.Duration
}

// Describe returns a Description of the controller.
func (c *Comp) Describe() any {
	d := &Description{
		Name:      c.Name(),
		Chip:      c.chip.Name(),
		Bank:      c.bank.String(),
		State:     c.State().String(),
		SdClock:   c.timing.Clock.String(),
		Timing:    c.timing,
		Steps:     len(c.plan.Steps),
		HoldTotal: c.plan.Duration(),
	}

	if c.State() == StateReady {
		d.Region = c.Region().String()
	}

	return d
}
