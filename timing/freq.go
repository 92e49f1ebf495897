// Package timing converts between nanosecond requirements and clock cycles.
//
// All conversions that produce a delay round toward the safe side: a
// required minimum delay is never represented by fewer cycles than it needs.
package timing

import (
	"fmt"
	"log"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

// Freq defines the type of frequency, in Hz.
type Freq uint64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

const nsPerSecond = 1_000_000_000

func (f Freq) mustNotBeZero() {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}
}

// PeriodNs returns the time between two consecutive ticks in nanoseconds.
func (f Freq) PeriodNs() float64 {
	f.mustNotBeZero()

	return float64(nsPerSecond) / float64(f)
}

// Div returns the frequency of a clock divided by n. The result is rounded
// up, so that a period derived from it is never longer than the real one.
func (f Freq) Div(n uint64) Freq {
	if n == 0 {
		log.Panic("divider cannot be 0")
	}

	return Freq((uint64(f) + n - 1) / n)
}

// CyclesAtLeast returns the smallest number of cycles whose total duration is
// greater than or equal to ns.
func (f Freq) CyclesAtLeast(ns uint64) uint64 {
	f.mustNotBeZero()

	return mulDiv(ns, uint64(f), nsPerSecond, true)
}

// CyclesAtMost returns the largest number of cycles whose total duration is
// less than or equal to ns.
func (f Freq) CyclesAtMost(ns uint64) uint64 {
	f.mustNotBeZero()

	return mulDiv(ns, uint64(f), nsPerSecond, false)
}

// NsForCycles returns the duration of n cycles in nanoseconds, rounded up.
func (f Freq) NsForCycles(n uint64) uint64 {
	f.mustNotBeZero()

	return mulDiv(n, nsPerSecond, uint64(f), true)
}

// DurationForCycles returns the duration of n cycles, rounded up to the next
// nanosecond.
func (f Freq) DurationForCycles(n uint64) time.Duration {
	return time.Duration(f.NsForCycles(n))
}

func (f Freq) String() string {
	switch {
	case f >= GHz && f%GHz == 0:
		return fmt.Sprintf("%d GHz", f/GHz)
	case f >= MHz && f%MHz == 0:
		return fmt.Sprintf("%d MHz", f/MHz)
	case f >= KHz && f%KHz == 0:
		return fmt.Sprintf("%d kHz", f/KHz)
	default:
		return fmt.Sprintf("%d Hz", uint64(f))
	}
}

// ParseFreq parses strings such as "100MHz", "166 mhz", "8000000" or
// "1.5GHz".
func ParseFreq(s string) (Freq, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	str = strings.ReplaceAll(str, " ", "")

	unit := Hz

	for _, u := range []struct {
		suffix string
		unit   Freq
	}{
		{"ghz", GHz},
		{"mhz", MHz},
		{"khz", KHz},
		{"hz", Hz},
	} {
		if strings.HasSuffix(str, u.suffix) {
			str = strings.TrimSuffix(str, u.suffix)
			unit = u.unit

			break
		}
	}

	if str == "" {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}

	if n, err := strconv.ParseUint(str, 10, 64); err == nil {
		if n == 0 {
			return 0, fmt.Errorf("invalid frequency %q", s)
		}

		return Freq(n) * unit, nil
	}

	v, err := strconv.ParseFloat(str, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}

	return Freq(v*float64(unit) + 0.5), nil
}

// mulDiv computes a*b/c without intermediate overflow.
func mulDiv(a, b, c uint64, roundUp bool) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		log.Panicf("overflow computing %d*%d/%d", a, b, c)
	}

	q, r := bits.Div64(hi, lo, c)
	if roundUp && r != 0 {
		q++
	}

	return q
}
