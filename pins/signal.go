// Package pins describes the pins wired to the memory controller and checks
// that a bundle of them forms a usable memory bus.
//
// Bus shapes are closed sets of fixed-size types. A bundle with the wrong
// number of address or data lines, or with the chip select of one socket and
// the clock enable of the other, does not compile. What the type system
// cannot see (missing pins, a pin used twice, a pin that cannot carry its
// signal) is rejected when the bus is validated, before any driver touches
// the hardware.
package pins

import "fmt"

// Signal is one controller signal that a pin can be muxed to.
type Signal uint8

// Address, data, byte-lane and control signals of the controller.
const (
	A0 Signal = iota
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	A8
	A9
	A10
	A11
	A12
	A13
	A14
	A15
	A16
	A17
	A18
	A19
	A20
	A21
	A22
	A23
	A24
	A25
	BA0
	BA1
	D0
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	D8
	D9
	D10
	D11
	D12
	D13
	D14
	D15
	D16
	D17
	D18
	D19
	D20
	D21
	D22
	D23
	D24
	D25
	D26
	D27
	D28
	D29
	D30
	D31
	NBL0
	NBL1
	NBL2
	NBL3
	SDCLK
	SDCKE0
	SDCKE1
	SDNE0
	SDNE1
	SDNRAS
	SDNCAS
	SDNWE
	NCE
	NOE
	NWE
	NWAIT
	INT
	numSignals
)

// NAND flash uses two address lines as latch enables.
const (
	CLE = A16
	ALE = A17
)

var controlNames = [...]string{
	SDCLK - SDCLK:  "SDCLK",
	SDCKE0 - SDCLK: "SDCKE0",
	SDCKE1 - SDCLK: "SDCKE1",
	SDNE0 - SDCLK:  "SDNE0",
	SDNE1 - SDCLK:  "SDNE1",
	SDNRAS - SDCLK: "SDNRAS",
	SDNCAS - SDCLK: "SDNCAS",
	SDNWE - SDCLK:  "SDNWE",
	NCE - SDCLK:    "NCE",
	NOE - SDCLK:    "NOE",
	NWE - SDCLK:    "NWE",
	NWAIT - SDCLK:  "NWAIT",
	INT - SDCLK:    "INT",
}

func (s Signal) String() string {
	switch {
	case s <= A25:
		return fmt.Sprintf("A%d", s-A0)
	case s <= BA1:
		return fmt.Sprintf("BA%d", s-BA0)
	case s <= D31:
		return fmt.Sprintf("D%d", s-D0)
	case s <= NBL3:
		return fmt.Sprintf("NBL%d", s-NBL0)
	case s < numSignals:
		return controlNames[s-SDCLK]
	}

	return fmt.Sprintf("Signal(%d)", uint8(s))
}

func addressSignal(i int) Signal { return A0 + Signal(i) }
func dataSignal(i int) Signal    { return D0 + Signal(i) }
func byteLaneSignal(i int) Signal {
	return NBL0 + Signal(i)
}
