package pins

import (
	"slices"

	"github.com/sarchlab/memctl/fmc"
)

// Address11 carries A0 to A10.
type Address11 [11]Pin

// Address13 carries A0 to A12.
type Address13 [13]Pin

func (a Address11) roles() []Role { return addressRoles(a[:]) }
func (a Address13) roles() []Role { return addressRoles(a[:]) }

func addressRoles(p []Pin) []Role {
	roles := make([]Role, len(p))
	for i := range p {
		roles[i] = Role{Signal: addressSignal(i), Pin: p[i]}
	}

	return roles
}

// AddressLines is the closed set of SDRAM address bus widths.
type AddressLines interface {
	Address11 | Address13
	roles() []Role
}

// Banks2 wires one bank-address line, for chips with two internal banks.
type Banks2 struct {
	BA0 Pin
}

// Banks4 wires two bank-address lines, for chips with four internal banks.
type Banks4 struct {
	BA0, BA1 Pin
}

func (b Banks2) roles() []Role { return []Role{{BA0, b.BA0}} }
func (b Banks4) roles() []Role { return []Role{{BA0, b.BA0}, {BA1, b.BA1}} }

// BankLines is the closed set of bank-address bus widths.
type BankLines interface {
	Banks2 | Banks4
	roles() []Role
}

// Data8 is an 8-bit data bus with its byte lane.
type Data8 struct {
	D    [8]Pin
	NBL0 Pin
}

// Data16 is a 16-bit data bus with its two byte lanes.
type Data16 struct {
	D   [16]Pin
	NBL [2]Pin
}

// Data32 is a 32-bit data bus with its four byte lanes.
type Data32 struct {
	D   [32]Pin
	NBL [4]Pin
}

func (d Data8) roles() []Role  { return dataRoles(d.D[:], []Pin{d.NBL0}) }
func (d Data16) roles() []Role { return dataRoles(d.D[:], d.NBL[:]) }
func (d Data32) roles() []Role { return dataRoles(d.D[:], d.NBL[:]) }

func dataRoles(data, lanes []Pin) []Role {
	roles := make([]Role, 0, len(data)+len(lanes))
	for i, p := range data {
		roles = append(roles, Role{Signal: dataSignal(i), Pin: p})
	}

	for i, p := range lanes {
		roles = append(roles, Role{Signal: byteLaneSignal(i), Pin: p})
	}

	return roles
}

// DataLines is the closed set of data bus widths. Each width carries exactly
// the byte-lane masks it needs.
type DataLines interface {
	Data8 | Data16 | Data32
	roles() []Role
}

// SelectBank1 enables the chip on controller bank 1.
type SelectBank1 struct {
	SDCKE0, SDNE0 Pin
}

// SelectBank2 enables the chip on controller bank 2.
type SelectBank2 struct {
	SDCKE1, SDNE1 Pin
}

func (s SelectBank1) roles() []Role {
	return []Role{{SDCKE0, s.SDCKE0}, {SDNE0, s.SDNE0}}
}

func (s SelectBank2) roles() []Role {
	return []Role{{SDCKE1, s.SDCKE1}, {SDNE1, s.SDNE1}}
}

func (SelectBank1) bank() fmc.SdramBank { return fmc.SdramBank1 }
func (SelectBank2) bank() fmc.SdramBank { return fmc.SdramBank2 }

// ChipSelect is the closed set of clock-enable and chip-enable pairs. The
// pair decides which controller bank the chip answers on.
type ChipSelect interface {
	SelectBank1 | SelectBank2
	roles() []Role
	bank() fmc.SdramBank
}

// SdramBus is the complete set of pins for one SDRAM chip.
type SdramBus[A AddressLines, B BankLines, D DataLines, S ChipSelect] struct {
	Address A
	Banks   B
	Data    D
	Select  S

	SDCLK  Pin
	SDNCAS Pin
	SDNRAS Pin
	SDNWE  Pin
}

// Validate checks every pin and returns the bus shape.
func (b SdramBus[A, B, D, S]) Validate() (Sdram, error) {
	address := b.Address.roles()
	banks := b.Banks.roles()
	data := b.Data.roles()

	roles := slices.Concat(address, banks, data, b.Select.roles(), []Role{
		{SDCLK, b.SDCLK},
		{SDNCAS, b.SDNCAS},
		{SDNRAS, b.SDNRAS},
		{SDNWE, b.SDNWE},
	})

	if err := validate(roles); err != nil {
		return Sdram{}, err
	}

	width := 0
	for _, r := range data {
		if r.Signal >= D0 && r.Signal <= D31 {
			width++
		}
	}

	return Sdram{
		layout: Layout{
			AddressLines:  len(address),
			InternalBanks: 1 << len(banks),
			DataWidth:     width,
			Bank:          b.Select.bank(),
		},
		roles: roles,
	}, nil
}

// MustValidate is Validate for buses fixed at build time. It panics if the
// bus is invalid.
func (b SdramBus[A, B, D, S]) MustValidate() Sdram {
	s, err := b.Validate()
	if err != nil {
		panic(err)
	}

	return s
}

// Layout is the shape of a validated bus.
type Layout struct {
	AddressLines  int
	InternalBanks int
	DataWidth     int
	Bank          fmc.SdramBank
}

// Sdram is a validated SDRAM bus. The zero value is not valid; obtain one
// from SdramBus.Validate.
type Sdram struct {
	layout Layout
	roles  []Role
}

// Valid reports whether the bus came out of validation.
func (s Sdram) Valid() bool {
	return s.layout.Bank.Valid()
}

// Layout returns the bus shape.
func (s Sdram) Layout() Layout {
	return s.layout
}

// Roles lists the pin assigned to each signal, in bus order.
func (s Sdram) Roles() []Role {
	return slices.Clone(s.roles)
}
