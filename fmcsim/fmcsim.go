// Package fmcsim is a software model of the memory controller and the parts
// attached to it. It implements fmc.Peripheral so that the drivers can run
// unchanged on a host, in tests and in the command line tool.
package fmcsim

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/timing"
)

// A CommandRecord is one decoded write to the SDRAM command register.
type CommandRecord struct {
	ID           uint64
	At           time.Duration
	Mode         fmc.SdramMode
	Bank1        bool
	Bank2        bool
	Refreshes    uint32
	ModeRegister uint32
}

func (r CommandRecord) String() string {
	banks := ""
	if r.Bank1 {
		banks += " SDRAM1"
	}

	if r.Bank2 {
		banks += " SDRAM2"
	}

	return fmt.Sprintf("#%d %v %s%s", r.ID, r.At, r.Mode, banks)
}

// Comp is the simulated controller.
type Comp struct {
	name   string
	kernel timing.Freq
	clock  *Clock

	mu        sync.Mutex
	regs      map[fmc.Offset]uint32
	enabled   bool
	busyReads int
	busyLeft  int
	sdram     [2]*SdramModel
	nand      *NandModel
	commands  []CommandRecord
	writes    int
	faults    []error

	nextID atomic.Uint64
}

// Name returns the name of the simulated controller.
func (c *Comp) Name() string {
	return c.name
}

// Registers returns the register file.
func (c *Comp) Registers() fmc.Registers {
	return c
}

// Enable turns on register access.
func (c *Comp) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = true
}

// MemoryControllerEnable sets FMCEN in BCR1.
func (c *Comp) MemoryControllerEnable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.regs[fmc.BCR1] = fmc.BcrFMCEN.Insert(c.regs[fmc.BCR1], 1)
}

// SourceClock returns the kernel clock.
func (c *Comp) SourceClock() timing.Freq {
	return c.kernel
}

// Memory returns the simulated memory map.
func (c *Comp) Memory() fmc.Memory {
	return bus{c}
}

// Clock returns the virtual clock that stamps commands. Pass it to Init as
// the delay provider.
func (c *Comp) Clock() *Clock {
	return c.clock
}

// Sdram returns the part attached to a bank, or nil.
func (c *Comp) Sdram(bank fmc.SdramBank) *SdramModel {
	if !bank.Valid() {
		return nil
	}

	return c.sdram[bank-1]
}

// Nand returns the NAND part, or nil.
func (c *Comp) Nand() *NandModel {
	return c.nand
}

// Read reads a register. Reading SDSR reports BUSY for a few reads after
// each command.
func (c *Comp) Read(off fmc.Offset) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if off == fmc.SDSR {
		sr := c.status()
		if c.busyLeft > 0 {
			c.busyLeft--
		}

		return sr
	}

	return c.regs[off]
}

// status composes SDSR: the low power mode of each bank and BUSY.
func (c *Comp) status() uint32 {
	var sr uint32

	for i, f := range []fmc.Field{fmc.SdsrMODES1, fmc.SdsrMODES2} {
		if c.sdram[i] != nil {
			sr = f.Insert(sr, uint32(c.sdram[i].status))
		}
	}

	if c.busyLeft > 0 {
		sr = fmc.SdsrBUSY.Insert(sr, 1)
	}

	return sr
}

// Write writes a register and applies its side effects.
func (c *Comp) Write(off fmc.Offset, value uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes++

	if !c.enabled {
		c.faults = append(c.faults,
			fmt.Errorf("write to %s before the controller was enabled", off))
	}

	switch off {
	case fmc.SDSR:
		return
	case fmc.SDCMR:
		c.command(value)
	case fmc.SDRTR:
		count := fmc.SdrtrCOUNT.Get(value)
		for _, m := range c.sdram {
			if m != nil {
				m.refreshCount = count
			}
		}
	}

	c.regs[off] = value
}

func (c *Comp) command(value uint32) {
	rec := CommandRecord{
		ID:           c.nextID.Add(1),
		At:           c.clock.Now(),
		Mode:         fmc.SdramMode(fmc.SdcmrMODE.Get(value)),
		Bank1:        fmc.SdcmrCTB1.Get(value) == 1,
		Bank2:        fmc.SdcmrCTB2.Get(value) == 1,
		Refreshes:    fmc.SdcmrNRFS.Get(value) + 1,
		ModeRegister: fmc.SdcmrMRD.Get(value),
	}
	c.commands = append(c.commands, rec)
	c.busyLeft = c.busyReads

	if !rec.Bank1 && !rec.Bank2 {
		c.faults = append(c.faults, fmt.Errorf("%s targets no bank", rec))
	}

	for i, target := range []bool{rec.Bank1, rec.Bank2} {
		if target && c.sdram[i] != nil {
			c.sdram[i].command(rec.Mode, rec.Refreshes, rec.ModeRegister, rec.At)
		}
	}
}

// Commands returns every SDRAM command issued so far.
func (c *Comp) Commands() []CommandRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]CommandRecord(nil), c.commands...)
}

// RegisterWrites returns the number of register writes so far.
func (c *Comp) RegisterWrites() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.writes
}

// Dump returns a copy of every register that was written, plus SDSR as a
// read would return it, without consuming a busy read.
func (c *Comp) Dump() map[fmc.Offset]uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := make(map[fmc.Offset]uint32, len(c.regs)+1)
	for k, v := range c.regs {
		d[k] = v
	}

	d[fmc.SDSR] = c.status()

	return d
}

// DumpOffsets returns the offsets of Dump in ascending order.
func DumpOffsets(d map[fmc.Offset]uint32) []fmc.Offset {
	offs := make([]fmc.Offset, 0, len(d))
	for off := range d {
		offs = append(offs, off)
	}

	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })

	return offs
}

// Faults returns every controller, SDRAM and NAND error seen so far.
func (c *Comp) Faults() []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	faults := append([]error(nil), c.faults...)

	for _, m := range c.sdram {
		if m == nil {
			continue
		}

		for _, v := range m.violations {
			faults = append(faults, v)
		}
	}

	if c.nand != nil {
		faults = append(faults, c.nand.faults...)
	}

	return faults
}

func (c *Comp) fault(format string, args ...any) {
	c.faults = append(c.faults, fmt.Errorf(format, args...))
}

var _ fmc.Peripheral = (*Comp)(nil)
