package fmcsim

import (
	"errors"
)

// ErrBeyondCapacity is returned for accesses past the end of a Storage.
var ErrBeyondCapacity = errors.New("access beyond storage capacity")

// A Storage keeps the content of a simulated memory part.
//
// The storage is managed in units. Units that were never written take no
// memory and read back as the fill byte.
type Storage struct {
	unitSize uint64
	capacity uint64
	fill     byte
	data     map[uint64][]byte
}

// NewStorage creates a storage with the given capacity. Bytes never written
// read as fill.
func NewStorage(capacity uint64, fill byte) *Storage {
	storage := new(Storage)

	storage.unitSize = 4096
	storage.capacity = capacity
	storage.fill = fill
	storage.data = make(map[uint64][]byte)

	return storage
}

// Capacity returns the size of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) checkRange(address, length uint64) error {
	if address >= s.capacity || length > s.capacity-address {
		return ErrBeyondCapacity
	}

	return nil
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return baseAddr, inUnitAddr
}

func (s *Storage) unit(baseAddr uint64, create bool) []byte {
	unit, ok := s.data[baseAddr]
	if ok || !create {
		return unit
	}

	unit = make([]byte, s.unitSize)
	if s.fill != 0 {
		for i := range unit {
			unit[i] = s.fill
		}
	}

	s.data[baseAddr] = unit

	return unit
}

// Read returns length bytes starting at address.
func (s *Storage) Read(address, length uint64) ([]byte, error) {
	if err := s.checkRange(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)

	s.walk(address, length, func(unitBase, inUnit, offset, n uint64) {
		unit := s.unit(unitBase, false)
		if unit == nil {
			for i := offset; i < offset+n; i++ {
				res[i] = s.fill
			}

			return
		}

		copy(res[offset:offset+n], unit[inUnit:inUnit+n])
	})

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	if err := s.checkRange(address, uint64(len(data))); err != nil {
		return err
	}

	s.walk(address, uint64(len(data)), func(unitBase, inUnit, offset, n uint64) {
		unit := s.unit(unitBase, true)
		copy(unit[inUnit:inUnit+n], data[offset:offset+n])
	})

	return nil
}

// Discard returns a range to the fill byte, releasing units that it covers
// completely.
func (s *Storage) Discard(address, length uint64) error {
	if err := s.checkRange(address, length); err != nil {
		return err
	}

	s.walk(address, length, func(unitBase, inUnit, _, n uint64) {
		if n == s.unitSize {
			delete(s.data, unitBase)
			return
		}

		unit := s.unit(unitBase, false)
		for i := inUnit; unit != nil && i < inUnit+n; i++ {
			unit[i] = s.fill
		}
	})

	return nil
}

// walk splits [address, address+length) at unit boundaries.
func (s *Storage) walk(
	address, length uint64,
	f func(unitBase, inUnit, offset, n uint64),
) {
	currAddr := address
	offset := uint64(0)

	for offset < length {
		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		n := min(length-offset, baseAddr+s.unitSize-currAddr)

		f(baseAddr, inUnitAddr, offset, n)

		offset += n
		currAddr += n
	}
}
