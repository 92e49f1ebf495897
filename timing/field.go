package timing

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is wrapped by every RangeError.
var ErrOutOfRange = errors.New("timing out of range")

// A RangeError reports a delay that cannot be represented by a register
// field at the given clock.
type RangeError struct {
	Field  string
	Ns     uint64
	Cycles uint64
	Min    uint64
	Max    uint64
	Clock  Freq
}

func (e *RangeError) Error() string {
	if e.Ns == 0 {
		return fmt.Sprintf("%s: %d cycles outside %d..%d",
			e.Field, e.Cycles, e.Min, e.Max)
	}

	return fmt.Sprintf("%s: %d ns needs %d cycles at %s, field holds %d..%d",
		e.Field, e.Ns, e.Cycles, e.Clock, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// A Field is a register field that holds a number of clock cycles.
type Field struct {
	Name string
	Min  uint64
	Max  uint64
}

// Cycles translates a minimum delay into the field's cycle count. Counts
// below Min are raised to Min. Counts above Max are an error, since the
// field cannot hold a delay that long at this clock.
func (fd Field) Cycles(ns uint64, clk Freq) (uint64, error) {
	c := clk.CyclesAtLeast(ns)
	if c > fd.Max {
		return 0, &RangeError{
			Field:  fd.Name,
			Ns:     ns,
			Cycles: c,
			Min:    fd.Min,
			Max:    fd.Max,
			Clock:  clk,
		}
	}

	return max(c, fd.Min), nil
}

// Check validates a value that is already expressed in cycles.
func (fd Field) Check(cycles uint64) (uint64, error) {
	if cycles < fd.Min || cycles > fd.Max {
		return 0, &RangeError{
			Field:  fd.Name,
			Cycles: cycles,
			Min:    fd.Min,
			Max:    fd.Max,
		}
	}

	return cycles, nil
}
