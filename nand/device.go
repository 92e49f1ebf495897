package nand

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
)

// Command is an ONFI 5.1 command opcode.
type Command uint8

// ONFI commands used by the device.
const (
	CmdRead1             Command = 0x00
	CmdProgramConfirm    Command = 0x10
	CmdRead2             Command = 0x30
	CmdBlockErase        Command = 0x60
	CmdReadStatus        Command = 0x70
	CmdProgram           Command = 0x80
	CmdReadID            Command = 0x90
	CmdEraseConfirm      Command = 0xD0
	CmdReadParameterPage Command = 0xEC
	CmdReadUniqueID      Command = 0xED
	CmdReset             Command = 0xFF
)

var commandNames = map[Command]string{
	CmdRead1:             "READ",
	CmdProgramConfirm:    "PROGRAM CONFIRM",
	CmdRead2:             "READ CONFIRM",
	CmdBlockErase:        "BLOCK ERASE",
	CmdReadStatus:        "READ STATUS",
	CmdProgram:           "PROGRAM",
	CmdReadID:            "READ ID",
	CmdEraseConfirm:      "ERASE CONFIRM",
	CmdReadParameterPage: "READ PARAMETER PAGE",
	CmdReadUniqueID:      "READ UNIQUE ID",
	CmdReset:             "RESET",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}

	return fmt.Sprintf("CMD(0x%02x)", uint8(c))
}

// Offsets of the areas inside the NAND bank.
const (
	CommonData       uintptr = 0x0
	CommonCommand    uintptr = 0x1_0000
	CommonAddress    uintptr = 0x2_0000
	AttributeCommand uintptr = 0x801_0000
)

// HookPosCommand fires when the device issues a command. The item is the
// Command.
var HookPosCommand = &hooking.HookPos{Name: "NandCommand"}

// Status is the ONFI status register.
type Status uint8

// Failed reports whether the last operation failed.
func (s Status) Failed() bool { return s&0x01 != 0 }

// Ready reports whether the device is ready for a new command.
func (s Status) Ready() bool { return s&0x20 != 0 }

func (s Status) String() string {
	r := "busy"
	if s.Ready() {
		r = "ready"
	}

	if s.Failed() {
		return fmt.Sprintf("fail, %s (0x%02x)", r, uint8(s))
	}

	return fmt.Sprintf("pass, %s (0x%02x)", r, uint8(s))
}

// ID is the result of READ ID.
type ID struct {
	Manufacturer  uint8
	Device        uint8
	InternalChips int
	PageSize      int
}

func (id ID) String() string {
	return fmt.Sprintf("maker 0x%02x device 0x%02x, %d chip(s), %d byte pages",
		id.Manufacturer, id.Device, id.InternalChips, id.PageSize)
}

// ParameterPage holds the fields of the ONFI parameter page that the driver
// decodes.
type ParameterPage struct {
	Signature         [4]byte
	Revision          uint16
	Manufacturer      string
	Model             string
	DateCode          uint16
	DataBytesPerPage  uint32
	SpareBytesPerPage uint16
	PagesPerBlock     uint32
	BlocksPerLUN      uint32
	LUNs              uint8
	ECCBits           uint8
}

// Valid reports whether the signature reads "ONFI".
func (p ParameterPage) Valid() bool {
	return string(p.Signature[:]) == "ONFI"
}

// parameterPageLen covers every field the driver decodes.
const parameterPageLen = 115

// A Device issues ONFI commands through the NAND bank of the controller.
type Device struct {
	mem        fmc.Memory
	base       uintptr
	columnBits uint
	domain     hooking.Hookable
	pollLimit  int
}

func (d *Device) command(c Command) {
	d.mem.Write8(d.base+CommonCommand, uint8(c))
	d.invoke(c)
}

// attributeCommand issues a command whose completion starts tWB, so it goes
// through attribute space and its longer hold time.
func (d *Device) attributeCommand(c Command) {
	d.mem.Write8(d.base+AttributeCommand, uint8(c))
	d.invoke(c)
}

func (d *Device) addressCycle(a uint8) {
	d.mem.Write8(d.base+CommonAddress, a)
}

func (d *Device) read(buf []byte) {
	for i := range buf {
		buf[i] = d.mem.Read8(d.base + CommonData)
	}
}

func (d *Device) invoke(c Command) {
	if d.domain == nil || d.domain.NumHooks() == 0 {
		return
	}

	d.domain.InvokeHook(hooking.HookCtx{
		Domain: d.domain,
		Pos:    HookPosCommand,
		Item:   c,
	})
}

// Reset issues RESET.
func (d *Device) Reset() {
	d.command(CmdReset)
}

func (d *Device) readCommand(c Command, buf []byte) {
	d.command(c)
	d.addressCycle(0)
	d.read(buf)
}

// ReadID issues READ ID at address 00h.
func (d *Device) ReadID() ID {
	var raw [5]byte
	d.readCommand(CmdReadID, raw[:])

	chips := 1
	switch raw[2] & 3 {
	case 1:
		chips = 2
	case 2:
		chips = 4
	case 3:
		chips = 8
	}

	pageSize := 0
	switch raw[3] & 3 {
	case 1:
		pageSize = 2048
	case 2:
		pageSize = 4096
	}

	return ID{
		Manufacturer:  raw[0],
		Device:        raw[1],
		InternalChips: chips,
		PageSize:      pageSize,
	}
}

// ReadParameterPage issues READ PARAMETER PAGE and decodes the result.
func (d *Device) ReadParameterPage() ParameterPage {
	raw := make([]byte, parameterPageLen)
	d.readCommand(CmdReadParameterPage, raw)

	return decodeParameterPage(raw)
}

func decodeParameterPage(raw []byte) ParameterPage {
	le := binary.LittleEndian

	p := ParameterPage{
		Revision:          le.Uint16(raw[4:6]),
		Manufacturer:      trimField(raw[32:44]),
		Model:             trimField(raw[44:64]),
		DateCode:          le.Uint16(raw[65:67]),
		DataBytesPerPage:  le.Uint32(raw[80:84]),
		SpareBytesPerPage: le.Uint16(raw[84:86]),
		PagesPerBlock:     le.Uint32(raw[92:96]),
		BlocksPerLUN:      le.Uint32(raw[96:100]),
		LUNs:              raw[100],
		ECCBits:           raw[112],
	}
	copy(p.Signature[:], raw[0:4])

	return p
}

func trimField(b []byte) string {
	return string(bytes.TrimRight(b, " \x00"))
}

// ReadUniqueID issues READ UNIQUE ID and returns the 16 byte identifier.
func (d *Device) ReadUniqueID() [16]byte {
	var id [16]byte
	d.readCommand(CmdReadUniqueID, id[:])

	return id
}

// Status issues READ STATUS.
func (d *Device) Status() Status {
	d.command(CmdReadStatus)

	return Status(d.mem.Read8(d.base + CommonData))
}

func (d *Device) waitReady() Status {
	var s Status
	for range d.pollLimit {
		if s = d.Status(); s.Ready() {
			return s
		}
	}

	return s
}

func (d *Device) address(addr uint64, spare bool) {
	mask := uint64(1)<<d.columnBits - 1
	column := addr & mask
	if spare {
		column += 1 << d.columnBits
	}

	row := addr >> d.columnBits

	cycles := [5]uint8{
		uint8(column), uint8(column >> 8),
		uint8(row), uint8(row >> 8), uint8(row >> 16),
	}

	for _, a := range cycles {
		d.addressCycle(a)
	}
}

// BlockErase erases the block that contains addr and waits for the result.
func (d *Device) BlockErase(addr uint64) Status {
	d.command(CmdBlockErase)

	row := addr >> d.columnBits
	d.addressCycle(uint8(row))
	d.addressCycle(uint8(row >> 8))
	d.addressCycle(uint8(row >> 16))

	d.attributeCommand(CmdEraseConfirm)

	return d.waitReady()
}

// StartPageRead issues the command and address phases of a page read but
// leaves the data phase to the caller, for example to a DMA transfer.
func (d *Device) StartPageRead(addr uint64, spare bool) {
	d.command(CmdRead1)
	d.address(addr, spare)
	d.attributeCommand(CmdRead2)
}

// PageRead reads len(buf) bytes starting at addr. Reading past the end of
// the page returns undefined data.
func (d *Device) PageRead(addr uint64, spare bool, buf []byte) {
	d.StartPageRead(addr, spare)
	d.read(buf)
}

// PageProgram writes data starting at addr and waits for the program to
// finish.
func (d *Device) PageProgram(addr uint64, spare bool, data []byte) Status {
	d.command(CmdProgram)
	d.address(addr, spare)

	for _, b := range data {
		d.mem.Write8(d.base+CommonData, b)
	}

	d.attributeCommand(CmdProgramConfirm)

	return d.waitReady()
}

// PageSize returns the number of data bytes in a page.
func (d *Device) PageSize() int {
	return 1 << d.columnBits
}
