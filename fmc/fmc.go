// Package fmc defines the capabilities that the memory drivers need from the
// Flexible Memory Controller peripheral, together with its register map.
//
// The drivers never touch hardware directly. A board support package
// implements Peripheral on top of the real register block, and the fmcsim
// package implements it in software for tests and host-side tools.
package fmc

import (
	"time"

	"github.com/sarchlab/memctl/timing"
)

// Registers gives 32-bit access to the controller's register block.
type Registers interface {
	Read(off Offset) uint32
	Write(off Offset, value uint32)
}

// Memory gives byte access to a memory-mapped window, such as the command,
// address and data areas of a NAND bank.
type Memory interface {
	Read8(addr uintptr) uint8
	Write8(addr uintptr, value uint8)
}

// A Peripheral is exclusive access to one memory controller.
type Peripheral interface {
	// Registers returns the controller's register block.
	Registers() Registers

	// Enable enables the controller on its peripheral bus.
	Enable()

	// MemoryControllerEnable sets the global controller enable. Some parts
	// do not have one, in which case this does nothing.
	MemoryControllerEnable()

	// SourceClock returns the kernel clock feeding the controller. F4, F7
	// and G4 parts use HCLK, H7 parts use fmc_ker_ck.
	SourceClock() timing.Freq

	// Memory returns volatile access to the controller's memory map. Each
	// write must be committed before the call returns.
	Memory() Memory
}

// A Delay blocks the caller for at least the requested duration. It must
// have at least microsecond resolution.
type Delay interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to the Delay interface.
type DelayFunc func(d time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// Sleep is a Delay backed by time.Sleep, for hosted environments.
var Sleep Delay = DelayFunc(time.Sleep)

// CeilMicrosecond rounds d up to a whole number of microseconds, so that a
// delay provider with microsecond resolution never waits less than d.
func CeilMicrosecond(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}

	return (d + time.Microsecond - 1) / time.Microsecond * time.Microsecond
}
