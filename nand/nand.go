// Package nand drives parallel NAND flash on bank 3 of the memory controller.
// It programs the NAND timing registers and gives access to the part through
// raw ONFI commands. There is no ECC or wear levelling.
package nand

import (
	"errors"
	"fmt"
	"time"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/pins"
	"github.com/sarchlab/memctl/timing"
)

// Errors returned while building or initializing a NAND controller.
var (
	ErrInvalidConfig      = errors.New("invalid NAND configuration")
	ErrBusMismatch        = errors.New("NAND data bus width differs from the part")
	ErrAlreadyInitialized = errors.New("NAND controller already initialized")
)

// enableDelay is waited after the controller is enabled.
const enableDelay = time.Microsecond

// Comp is the NAND controller.
type Comp struct {
	*hooking.HookableBase

	periph    fmc.Peripheral
	chip      Chip
	regs      Registers
	pollLimit int
	device    *Device
}

// Builder can build new NAND controllers.
type Builder struct {
	periph    fmc.Peripheral
	chip      Chip
	bus       pins.Nand
	hasBus    bool
	kernel    timing.Freq
	pollLimit int
	hooks     []hooking.Hook
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{pollLimit: 1 << 20}
}

// WithPeripheral sets the controller the NAND is attached to.
func (b Builder) WithPeripheral(p fmc.Peripheral) Builder {
	b.periph = p
	return b
}

// WithChip sets the part to drive.
func (b Builder) WithChip(c Chip) Builder {
	b.chip = c
	return b
}

// WithPins sets the validated pin bus.
func (b Builder) WithPins(bus pins.Nand) Builder {
	b.bus = bus
	b.hasBus = true

	return b
}

// WithKernelClock overrides the kernel clock reported by the peripheral.
func (b Builder) WithKernelClock(f timing.Freq) Builder {
	b.kernel = f
	return b
}

// WithStatusPollLimit sets how many times READ STATUS is issued while
// waiting for an erase or program to finish.
func (b Builder) WithStatusPollLimit(n int) Builder {
	b.pollLimit = n
	return b
}

// WithAdditionalHooks adds a hook to the controller.
func (b Builder) WithAdditionalHooks(h hooking.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// Build checks the configuration and translates the timing. Nothing is
// written to the peripheral.
func (b Builder) Build(name string) (*Comp, error) {
	if b.periph == nil || b.chip == nil {
		return nil, fmt.Errorf("%w: peripheral and chip are required",
			ErrInvalidConfig)
	}

	cfg := b.chip.Config()
	if cfg.DataWidth != 8 && cfg.DataWidth != 16 {
		return nil, fmt.Errorf("%w: %s data width %d",
			ErrInvalidConfig, b.chip.Name(), cfg.DataWidth)
	}

	if cfg.ColumnBits == 0 || cfg.ColumnBits > 15 {
		return nil, fmt.Errorf("%w: %s column bits %d",
			ErrInvalidConfig, b.chip.Name(), cfg.ColumnBits)
	}

	if b.hasBus {
		if !b.bus.Valid() {
			return nil, fmt.Errorf("%w: bus was not validated", ErrBusMismatch)
		}

		if b.bus.DataWidth() != int(cfg.DataWidth) {
			return nil, fmt.Errorf("%w: bus %d bits, %s %d bits",
				ErrBusMismatch, b.bus.DataWidth(), b.chip.Name(), cfg.DataWidth)
		}
	}

	kernel := b.kernel
	if kernel == 0 {
		kernel = b.periph.SourceClock()
	}

	if kernel == 0 {
		return nil, fmt.Errorf("%w: kernel clock is zero", ErrInvalidConfig)
	}

	regs, err := Translate(b.chip.Timing(), kernel)
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", b.chip.Name(), kernel, err)
	}

	c := &Comp{
		HookableBase: hooking.NewHookableBase(name),
		periph:       b.periph,
		chip:         b.chip,
		regs:         regs,
		pollLimit:    max(b.pollLimit, 1),
	}

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	return c, nil
}

// New builds a NAND controller for a part wired through a validated bus.
func New(p fmc.Peripheral, bus pins.Nand, chip Chip) (*Comp, error) {
	return MakeBuilder().
		WithPeripheral(p).
		WithPins(bus).
		WithChip(chip).
		Build("NAND")
}

// NewUnchecked builds a NAND controller without checking the pins.
func NewUnchecked(p fmc.Peripheral, chip Chip) (*Comp, error) {
	return MakeBuilder().
		WithPeripheral(p).
		WithChip(chip).
		Build("NAND")
}

// Timing returns the translated register values.
func (c *Comp) Timing() Registers {
	return c.regs
}

// Chip returns the part the controller drives.
func (c *Comp) Chip() Chip {
	return c.chip
}

// Init programs the controller, waits for it to settle and resets the part.
// It may only be called once.
func (c *Comp) Init(delay fmc.Delay) (*Device, error) {
	if c.device != nil {
		return nil, ErrAlreadyInitialized
	}

	if delay == nil {
		return nil, fmt.Errorf("%w: delay is nil", ErrInvalidConfig)
	}

	c.periph.Enable()
	program(fmc.Trace(c.periph.Registers(), c, nil), c.chip.Config(), c.regs)
	c.periph.MemoryControllerEnable()
	delay.Delay(enableDelay)

	c.device = &Device{
		mem:        c.periph.Memory(),
		base:       fmc.Bank3.Base(),
		columnBits: uint(c.chip.Config().ColumnBits),
		domain:     c,
		pollLimit:  c.pollLimit,
	}
	c.device.Reset()

	return c.device, nil
}

// program writes PCR, PMEM and PATT, then enables the bank.
func program(r fmc.Registers, cfg Config, t Registers) {
	pwid := uint32(0)
	if cfg.DataWidth == 16 {
		pwid = 1
	}

	fmc.Modify(r, fmc.PCR,
		fmc.PcrTAR.Is(uint32(t.TAR)),
		fmc.PcrTCLR.Is(uint32(t.TCLR)),
		fmc.PcrECCPS.Is(1),
		fmc.PcrECCEN.Flag(false),
		fmc.PcrPWID.Is(pwid),
		fmc.PcrPTYP.Flag(true),
		fmc.PcrPWAITEN.Flag(true),
	)

	fmc.Modify(r, fmc.PMEM,
		fmc.PmemHIZ.Is(uint32(t.HiZ)),
		fmc.PmemHOLD.Is(uint32(t.Hold)),
		fmc.PmemWAIT.Is(uint32(t.Wait)),
		fmc.PmemSET.Is(uint32(t.Set)),
	)

	fmc.Modify(r, fmc.PATT,
		fmc.PmemHIZ.Is(uint32(t.HiZ)),
		fmc.PmemHOLD.Is(uint32(t.AttHold)),
		fmc.PmemWAIT.Is(uint32(t.Wait)),
		fmc.PmemSET.Is(uint32(t.Set)),
	)

	fmc.Modify(r, fmc.PCR, fmc.PcrPBKEN.Flag(true))
}
