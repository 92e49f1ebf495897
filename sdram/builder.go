package sdram

import (
	"fmt"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/pins"
	"github.com/sarchlab/memctl/timing"
)

// Builder can build new SDRAM controllers.
type Builder struct {
	periph    fmc.Peripheral
	chip      Chip
	bus       pins.Sdram
	hasBus    bool
	bank      fmc.SdramBank
	kernel    timing.Freq
	pollLimit int
	hooks     []hooking.Hook
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		pollLimit: 1 << 16,
	}
}

// WithPeripheral sets the controller that the SDRAM is attached to.
func (b Builder) WithPeripheral(p fmc.Peripheral) Builder {
	b.periph = p
	return b
}

// WithChip sets the part to drive.
func (b Builder) WithChip(c Chip) Builder {
	b.chip = c
	return b
}

// WithPins sets the validated pin bus. The bus decides the controller bank
// and is checked against the part's geometry.
func (b Builder) WithPins(bus pins.Sdram) Builder {
	b.bus = bus
	b.hasBus = true

	return b
}

// WithBank sets the controller bank for a build without pins.
func (b Builder) WithBank(bank fmc.SdramBank) Builder {
	b.bank = bank
	return b
}

// WithKernelClock overrides the kernel clock reported by the peripheral.
func (b Builder) WithKernelClock(f timing.Freq) Builder {
	b.kernel = f
	return b
}

// WithBusyPollLimit sets how many times the busy flag is polled after each
// command before the controller is declared stuck.
func (b Builder) WithBusyPollLimit(n int) Builder {
	b.pollLimit = n
	return b
}

// WithAdditionalHooks adds a hook to the controller.
func (b Builder) WithAdditionalHooks(h hooking.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// Build validates everything the power-up sequence depends on and returns a
// controller ready for Init. Nothing is written to the peripheral.
func (b Builder) Build(name string) (*Comp, error) {
	if b.periph == nil {
		return nil, configErr("Peripheral", nil, "must not be nil")
	}

	if b.chip == nil {
		return nil, configErr("Chip", nil, "must not be nil")
	}

	cfg := b.chip.Config()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", b.chip.Name(), err)
	}

	bank, err := b.resolveBank(cfg)
	if err != nil {
		return nil, err
	}

	mode := b.chip.ModeRegister()
	if err := checkModeRegister(mode, cfg); err != nil {
		return nil, err
	}

	kernel := b.kernel
	if kernel == 0 {
		kernel = b.periph.SourceClock()
	}

	sdclk, err := SdClock(cfg, b.chip.Timing(), kernel)
	if err != nil {
		return nil, err
	}

	regs, err := TranslateKernel(cfg, b.chip.Timing(), kernel)
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", b.chip.Name(), sdclk, err)
	}

	plan := NewPlan(bank, regs, mode)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if b.pollLimit <= 0 {
		return nil, configErr("BusyPollLimit", b.pollLimit, "must be positive")
	}

	c := &Comp{
		HookableBase: hooking.NewHookableBase(name),
		periph:       b.periph,
		chip:         b.chip,
		bank:         bank,
		timing:       regs,
		plan:         plan,
		pollLimit:    b.pollLimit,
	}

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	return c, nil
}

func (b Builder) resolveBank(cfg Config) (fmc.SdramBank, error) {
	if !b.hasBus {
		if !b.bank.Valid() {
			return 0, configErr("Bank", int(b.bank), "must be 1 or 2")
		}

		return b.bank, nil
	}

	if !b.bus.Valid() {
		return 0, &ConfigError{
			Field:  "Pins",
			Value:  "zero bus",
			Reason: "bus was not validated",
			Err:    ErrBusMismatch,
		}
	}

	l := b.bus.Layout()

	mismatch := func(field string, v any, reason string) error {
		return &ConfigError{Field: field, Value: v, Reason: reason, Err: ErrBusMismatch}
	}

	switch {
	case l.DataWidth != int(cfg.MemoryDataWidth):
		return 0, mismatch("DataWidth", l.DataWidth,
			fmt.Sprintf("part is %d bits wide", cfg.MemoryDataWidth))
	case l.AddressLines < int(cfg.RowBits):
		return 0, mismatch("AddressLines", l.AddressLines,
			fmt.Sprintf("part has %d row bits", cfg.RowBits))
	case l.AddressLines < int(cfg.ColumnBits):
		return 0, mismatch("AddressLines", l.AddressLines,
			fmt.Sprintf("part has %d column bits", cfg.ColumnBits))
	case l.InternalBanks < int(cfg.InternalBanks):
		return 0, mismatch("InternalBanks", l.InternalBanks,
			fmt.Sprintf("part has %d internal banks", cfg.InternalBanks))
	}

	if b.bank != 0 && b.bank != l.Bank {
		return 0, mismatch("Bank", int(b.bank),
			fmt.Sprintf("pins select %s", l.Bank))
	}

	return l.Bank, nil
}

func checkModeRegister(m ModeRegister, cfg Config) error {
	switch {
	case m > modeRegisterMax:
		return configErr("ModeRegister", fmt.Sprintf("0x%04x", uint16(m)),
			"does not fit 13 bits")
	case m.CasLatency() != cfg.CasLatency:
		return configErr("ModeRegister", m.String(),
			fmt.Sprintf("CAS latency differs from controller CAS %d", cfg.CasLatency))
	case m.BurstLength() < 0:
		return configErr("ModeRegister", m.String(), "reserved burst length")
	case m&operatingMask != 0:
		return configErr("ModeRegister", m.String(), "operating mode must be standard")
	}

	return nil
}
