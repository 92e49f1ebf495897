package sdram

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/memctl/fmc"
)

// A Region is the memory window of an initialized part. Accesses into it are
// not synchronized; callers that share it must coordinate themselves.
type Region struct {
	Base uintptr
	Size uint64
}

// Capacity returns the size in bytes of a part with the given geometry.
func Capacity(c Config) uint64 {
	bankBits := bits.TrailingZeros8(c.InternalBanks)
	addrBits := int(c.ColumnBits) + int(c.RowBits) + bankBits

	return uint64(1) << addrBits * uint64(c.MemoryDataWidth/8)
}

// RegionFor returns the region that a part occupies on a controller bank.
func RegionFor(bank fmc.SdramBank, c Config) Region {
	return Region{Base: bank.Bank().Base(), Size: Capacity(c)}
}

// End returns the first address past the region.
func (r Region) End() uintptr {
	return r.Base + uintptr(r.Size)
}

// Contains reports whether addr lies in the region.
func (r Region) Contains(addr uintptr) bool {
	return addr >= r.Base && addr < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("0x%08x-0x%08x (%d MiB)",
		r.Base, r.End()-1, r.Size>>20)
}
