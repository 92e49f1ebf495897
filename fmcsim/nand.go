package fmcsim

import (
	"encoding/binary"
	"fmt"
)

// NandGeometry describes a simulated ONFI part.
type NandGeometry struct {
	ID            [5]byte
	UniqueID      [16]byte
	Manufacturer  string
	Model         string
	ColumnBits    uint8
	SpareBytes    uint16
	PagesPerBlock uint32
	Blocks        uint32
}

// DefaultNandGeometry is a small part with the identity of an S34ML08G3.
var DefaultNandGeometry = NandGeometry{
	ID:            [5]byte{0x01, 0xD3, 0xD1, 0x95, 0x58},
	UniqueID:      [16]byte{0x4d, 0x45, 0x4d, 0x43, 0x54, 0x4c},
	Manufacturer:  "SPANSION",
	Model:         "S34ML08G3",
	ColumnBits:    12,
	SpareBytes:    256,
	PagesPerBlock: 64,
	Blocks:        64,
}

const (
	nandStatusFail  = 0x01
	nandStatusReady = 0x20 | 0x40
	nandWriteEnable = 0x80
)

// NandModel simulates an ONFI NAND flash behind the controller's command,
// address and data cycles.
type NandModel struct {
	geo     NandGeometry
	storage *Storage

	cmd    uint8
	addr   []uint8
	out    []byte
	outPos int
	in     []byte
	status uint8

	commands []uint8
	faults   []error
}

// NewNandModel creates an erased part.
func NewNandModel(geo NandGeometry) *NandModel {
	stride := uint64(2) << geo.ColumnBits
	capacity := stride * uint64(geo.PagesPerBlock) * uint64(geo.Blocks)

	return &NandModel{
		geo:     geo,
		storage: NewStorage(capacity, 0xFF),
		status:  nandStatusReady | nandWriteEnable,
	}
}

// Commands returns every command byte received.
func (n *NandModel) Commands() []uint8 {
	return append([]uint8(nil), n.commands...)
}

// Faults returns protocol errors seen by the part.
func (n *NandModel) Faults() []error {
	return append([]error(nil), n.faults...)
}

func (n *NandModel) stride() uint64 {
	return uint64(2) << n.geo.ColumnBits
}

func (n *NandModel) writeCommand(c uint8) {
	n.commands = append(n.commands, c)

	switch c {
	case 0xFF:
		n.reset()
	case 0x90, 0xEC, 0xED, 0x00, 0x80, 0x60:
		n.cmd = c
		n.addr = n.addr[:0]
		n.out = nil
		n.outPos = 0
		n.in = n.in[:0]
	case 0x70:
		n.out = []byte{n.status}
		n.outPos = 0
	case 0x30:
		n.confirm(0x00, c, n.loadPage)
	case 0x10:
		n.confirm(0x80, c, n.programPage)
	case 0xD0:
		n.confirm(0x60, c, n.eraseBlock)
	default:
		n.fault("unsupported command 0x%02x", c)
	}
}

func (n *NandModel) confirm(setup, c uint8, f func()) {
	if n.cmd != setup {
		n.fault("command 0x%02x without 0x%02x", c, setup)
		return
	}

	f()
	n.cmd = 0
}

func (n *NandModel) reset() {
	n.cmd = 0
	n.addr = n.addr[:0]
	n.out = nil
	n.in = n.in[:0]
	n.status = nandStatusReady | nandWriteEnable
}

func (n *NandModel) writeAddress(a uint8) {
	n.addr = append(n.addr, a)

	if len(n.addr) != 1 {
		return
	}

	switch n.cmd {
	case 0x90:
		n.out = n.geo.ID[:]
	case 0xEC:
		n.out = n.parameterPage()
	case 0xED:
		n.out = n.geo.UniqueID[:]
	}
}

func (n *NandModel) writeData(b uint8) {
	if n.cmd != 0x80 {
		n.fault("data write outside PROGRAM")
		return
	}

	n.in = append(n.in, b)
}

func (n *NandModel) readData() uint8 {
	if n.outPos >= len(n.out) {
		return 0xFF
	}

	b := n.out[n.outPos]
	n.outPos++

	return b
}

// pageAddress decodes five address cycles: two column, three row.
func (n *NandModel) pageAddress() (uint64, bool) {
	if len(n.addr) != 5 {
		n.fault("expected 5 address cycles, got %d", len(n.addr))
		return 0, false
	}

	column := uint64(n.addr[0]) | uint64(n.addr[1])<<8
	row := uint64(n.addr[2]) | uint64(n.addr[3])<<8 | uint64(n.addr[4])<<16

	return row*n.stride() + column, true
}

func (n *NandModel) loadPage() {
	addr, ok := n.pageAddress()
	if !ok {
		return
	}

	pageEnd := (addr/n.stride() + 1) * n.stride()

	data, err := n.storage.Read(addr, pageEnd-addr)
	if err != nil {
		n.fault("read: %v", err)
		return
	}

	n.out = data
	n.outPos = 0
}

func (n *NandModel) programPage() {
	n.status = nandStatusReady | nandWriteEnable

	addr, ok := n.pageAddress()
	if !ok {
		n.status |= nandStatusFail
		return
	}

	old, err := n.storage.Read(addr, uint64(len(n.in)))
	if err != nil {
		n.fault("program: %v", err)
		n.status |= nandStatusFail

		return
	}

	// Programming can only clear bits.
	for i := range old {
		old[i] &= n.in[i]
	}

	if err := n.storage.Write(addr, old); err != nil {
		n.fault("program: %v", err)
		n.status |= nandStatusFail
	}
}

func (n *NandModel) eraseBlock() {
	n.status = nandStatusReady | nandWriteEnable

	if len(n.addr) != 3 {
		n.fault("expected 3 address cycles, got %d", len(n.addr))
		n.status |= nandStatusFail

		return
	}

	row := uint64(n.addr[0]) | uint64(n.addr[1])<<8 | uint64(n.addr[2])<<16
	block := row / uint64(n.geo.PagesPerBlock)
	blockSize := n.stride() * uint64(n.geo.PagesPerBlock)

	if err := n.storage.Discard(block*blockSize, blockSize); err != nil {
		n.fault("erase: %v", err)
		n.status |= nandStatusFail
	}
}

func (n *NandModel) parameterPage() []byte {
	p := make([]byte, 256)
	le := binary.LittleEndian

	copy(p[0:4], "ONFI")
	le.PutUint16(p[4:6], 1<<5)
	copy(p[32:44], fmt.Sprintf("%-12s", n.geo.Manufacturer))
	copy(p[44:64], fmt.Sprintf("%-20s", n.geo.Model))
	p[64] = n.geo.ID[0]
	le.PutUint32(p[80:84], uint32(1)<<n.geo.ColumnBits)
	le.PutUint16(p[84:86], n.geo.SpareBytes)
	le.PutUint32(p[92:96], n.geo.PagesPerBlock)
	le.PutUint32(p[96:100], n.geo.Blocks)
	p[100] = 1
	p[112] = 4

	return p
}

func (n *NandModel) fault(format string, args ...any) {
	n.faults = append(n.faults, fmt.Errorf("nand: "+format, args...))
}
