package fmc

import "fmt"

// Bank is one of the fixed regions of the controller's memory map. See
// RM0433 Figure 95.
type Bank int

// A list of all banks of the memory map.
const (
	Bank1 Bank = iota + 1
	Bank2
	Bank3
	Bank4
	Bank5
	Bank6
)

// BankSize is the size of the address window decoded for each bank.
const BankSize = 0x1000_0000

// Base returns the first address of the bank.
func (b Bank) Base() uintptr {
	switch b {
	case Bank1:
		return 0x6000_0000
	case Bank2:
		return 0x7000_0000
	case Bank3:
		return 0x8000_0000
	case Bank4:
		return 0x9000_0000
	case Bank5:
		return 0xC000_0000
	case Bank6:
		return 0xD000_0000
	}

	panic(fmt.Sprintf("invalid bank %d", int(b)))
}

func (b Bank) String() string {
	return fmt.Sprintf("Bank%d", int(b))
}

// SdramBank selects one of the two SDRAM sockets of the controller.
type SdramBank int

// The two SDRAM sockets.
const (
	SdramBank1 SdramBank = 1
	SdramBank2 SdramBank = 2
)

// Valid reports whether b names an existing socket.
func (b SdramBank) Valid() bool {
	return b == SdramBank1 || b == SdramBank2
}

// Bank returns the memory map region that the socket decodes to.
func (b SdramBank) Bank() Bank {
	switch b {
	case SdramBank1:
		return Bank5
	case SdramBank2:
		return Bank6
	}

	panic(fmt.Sprintf("invalid SDRAM bank %d", int(b)))
}

// Control returns the SDCR register of the socket.
func (b SdramBank) Control() Offset {
	if b == SdramBank2 {
		return SDCR2
	}

	return SDCR1
}

// Timing returns the SDTR register of the socket.
func (b SdramBank) Timing() Offset {
	if b == SdramBank2 {
		return SDTR2
	}

	return SDTR1
}

func (b SdramBank) String() string {
	return fmt.Sprintf("SDRAM%d", int(b))
}
