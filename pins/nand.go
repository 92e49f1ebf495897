package pins

import "slices"

// NandData8 is an 8-bit NAND I/O bus.
type NandData8 struct {
	D [8]Pin
}

// NandData16 is a 16-bit NAND I/O bus.
type NandData16 struct {
	D [16]Pin
}

func (d NandData8) roles() []Role  { return dataRoles(d.D[:], nil) }
func (d NandData16) roles() []Role { return dataRoles(d.D[:], nil) }

// NandDataLines is the closed set of NAND I/O widths.
type NandDataLines interface {
	NandData8 | NandData16
	roles() []Role
}

// NandBus is the complete set of pins for one NAND flash.
type NandBus[D NandDataLines] struct {
	Data D

	ALE   Pin
	CLE   Pin
	NOE   Pin
	NWE   Pin
	NCE   Pin
	NWAIT Pin
}

// Validate checks every pin and returns the bus shape.
func (b NandBus[D]) Validate() (Nand, error) {
	data := b.Data.roles()

	roles := slices.Concat(data, []Role{
		{ALE, b.ALE},
		{CLE, b.CLE},
		{NOE, b.NOE},
		{NWE, b.NWE},
		{NCE, b.NCE},
		{NWAIT, b.NWAIT},
	})

	if err := validate(roles); err != nil {
		return Nand{}, err
	}

	return Nand{width: len(data), roles: roles}, nil
}

// Nand is a validated NAND bus.
type Nand struct {
	width int
	roles []Role
}

// Valid reports whether the bus came out of validation.
func (n Nand) Valid() bool {
	return n.width != 0
}

// DataWidth returns the I/O width in bits.
func (n Nand) DataWidth() int {
	return n.width
}

// Roles lists the pin assigned to each signal, in bus order.
func (n Nand) Roles() []Role {
	return slices.Clone(n.roles)
}
