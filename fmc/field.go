package fmc

import "fmt"

// A Field is a contiguous group of bits inside a register.
type Field struct {
	Name  string
	Shift uint8
	Width uint8
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	return uint32(1)<<f.Width - 1
}

// Mask returns the field's bits in register position.
func (f Field) Mask() uint32 {
	return f.Max() << f.Shift
}

// Get extracts the field from a register value.
func (f Field) Get(reg uint32) uint32 {
	return (reg & f.Mask()) >> f.Shift
}

// Insert returns reg with the field replaced by value. Values that do not fit
// are a programming error: every caller validates its input first.
func (f Field) Insert(reg, value uint32) uint32 {
	if value > f.Max() {
		panic(fmt.Sprintf("value %d does not fit field %s", value, f.Name))
	}

	return reg&^f.Mask() | value<<f.Shift
}

// Is returns the field set to value, for use with Modify.
func (f Field) Is(value uint32) FieldValue {
	return FieldValue{Field: f, Value: value}
}

// Flag returns a one bit field set from a bool, for use with Modify.
func (f Field) Flag(on bool) FieldValue {
	if on {
		return f.Is(1)
	}

	return f.Is(0)
}

// A FieldValue pairs a field with the value to write into it.
type FieldValue struct {
	Field Field
	Value uint32
}

// Modify performs a read-modify-write of a register, replacing the given
// fields and keeping every other bit.
func Modify(r Registers, off Offset, values ...FieldValue) {
	reg := r.Read(off)
	for _, v := range values {
		reg = v.Field.Insert(reg, v.Value)
	}

	r.Write(off, reg)
}

// Compose builds a register value from zero.
func Compose(values ...FieldValue) uint32 {
	var reg uint32
	for _, v := range values {
		reg = v.Field.Insert(reg, v.Value)
	}

	return reg
}

// IsSet reports whether a one bit field is set in the register.
func IsSet(r Registers, off Offset, f Field) bool {
	return f.Get(r.Read(off)) != 0
}
