package fmcsim

import (
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/nand"
)

// bus decodes accesses to the controller's memory map.
type bus struct {
	c *Comp
}

func (b bus) Read8(addr uintptr) uint8 {
	c := b.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, off, ok := c.sdramAt(addr); ok {
		v, err := m.read8(off)
		if err != nil {
			c.fault("read 0x%08x: %v", addr, err)
		}

		return v
	}

	if c.nandAt(addr) {
		return c.nand.readData()
	}

	c.fault("read from unmapped address 0x%08x", addr)

	return 0
}

func (b bus) Write8(addr uintptr, value uint8) {
	c := b.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, off, ok := c.sdramAt(addr); ok {
		if err := m.write8(off, value); err != nil {
			c.fault("write 0x%08x: %v", addr, err)
		}

		return
	}

	if !c.nandAt(addr) {
		c.fault("write to unmapped address 0x%08x", addr)
		return
	}

	switch off := addr - fmc.Bank3.Base(); {
	case off&nand.CommonCommand != 0:
		c.nand.writeCommand(value)
	case off&nand.CommonAddress != 0:
		c.nand.writeAddress(value)
	default:
		c.nand.writeData(value)
	}
}

func (c *Comp) sdramAt(addr uintptr) (*SdramModel, uint64, bool) {
	for i, bank := range []fmc.Bank{fmc.Bank5, fmc.Bank6} {
		m := c.sdram[i]
		if m == nil || addr < bank.Base() || addr >= bank.Base()+fmc.BankSize {
			continue
		}

		if fmc.BcrFMCEN.Get(c.regs[fmc.BCR1]) == 0 {
			return nil, 0, false
		}

		off := uint64(addr - bank.Base())
		if off >= m.storage.Capacity() {
			return nil, 0, false
		}

		return m, off, true
	}

	return nil, 0, false
}

func (c *Comp) nandAt(addr uintptr) bool {
	base := fmc.Bank3.Base()
	if c.nand == nil || addr < base || addr >= base+fmc.BankSize {
		return false
	}

	return fmc.PcrPBKEN.Get(c.regs[fmc.PCR]) != 0 &&
		fmc.BcrFMCEN.Get(c.regs[fmc.BCR1]) != 0
}
