package sdram

import (
	"fmt"
	"strings"
)

// ModeRegister is the JEDEC SDRAM mode register, loaded through the MRD
// field of the command register.
type ModeRegister uint16

// Mode register bits.
const (
	BurstLength1        ModeRegister = 0x0000
	BurstLength2        ModeRegister = 0x0001
	BurstLength4        ModeRegister = 0x0002
	BurstLength8        ModeRegister = 0x0003
	BurstLengthFullPage ModeRegister = 0x0007

	BurstTypeSequential  ModeRegister = 0x0000
	BurstTypeInterleaved ModeRegister = 0x0008

	CasLatency1 ModeRegister = 0x0010
	CasLatency2 ModeRegister = 0x0020
	CasLatency3 ModeRegister = 0x0030

	OperatingModeStandard ModeRegister = 0x0000

	WriteBurstProgrammed ModeRegister = 0x0000
	WriteBurstSingle     ModeRegister = 0x0200
)

const (
	burstLengthMask = 0x0007
	casLatencyMask  = 0x0070
	operatingMask   = 0x0180
	modeRegisterMax = 0x1FFF
)

// CasLatency returns the CAS latency field.
func (m ModeRegister) CasLatency() uint8 {
	return uint8((m & casLatencyMask) >> 4)
}

// BurstLength returns the burst length in accesses, or 0 for full page.
func (m ModeRegister) BurstLength() int {
	switch m & burstLengthMask {
	case BurstLength1:
		return 1
	case BurstLength2:
		return 2
	case BurstLength4:
		return 4
	case BurstLength8:
		return 8
	case BurstLengthFullPage:
		return 0
	}

	return -1
}

// Interleaved reports whether the burst type is interleaved.
func (m ModeRegister) Interleaved() bool {
	return m&BurstTypeInterleaved != 0
}

// SingleWrite reports whether writes are single accesses.
func (m ModeRegister) SingleWrite() bool {
	return m&WriteBurstSingle != 0
}

func (m ModeRegister) String() string {
	var b strings.Builder

	bl := m.BurstLength()
	switch bl {
	case 0:
		b.WriteString("BL=page")
	case -1:
		b.WriteString("BL=reserved")
	default:
		fmt.Fprintf(&b, "BL=%d", bl)
	}

	if m.Interleaved() {
		b.WriteString(" interleaved")
	} else {
		b.WriteString(" sequential")
	}

	fmt.Fprintf(&b, " CL=%d", m.CasLatency())

	if m.SingleWrite() {
		b.WriteString(" single-write")
	}

	return b.String()
}
