// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package register

import (
	"github.com/ezrec/pcireg/field"
)

// Width of a register access.
type Width int

//go:generate go tool stringer -linecomment -type=Width
const (
	NARROW = Width(0) // 32-bit
	WIDE   = Width(1) // 64-bit
)

// Bytes spanned by an access of this width.
func (width Width) Bytes() uint64 {
	if width == WIDE {
		return 2 * WORD_SIZE
	}
	return WORD_SIZE
}

// Direction of a register access.
type Direction int

//go:generate go tool stringer -linecomment -type=Direction
const (
	READ  = Direction(0) // read
	WRITE = Direction(1) // write
)

// ReadRegister reads the register at offset.
//
// A wide read combines two adjacent registers: the one at offset is the
// high word, the one at offset+4 the low word.
func ReadRegister(region Region, offset uint32, wide bool) (value uint64) {
	at := uint64(offset)

	if !wide {
		value = uint64(region.load(at))
		return
	}

	high := region.load(at)
	low := region.load(at + WORD_SIZE)
	value = uint64(high)<<32 | uint64(low)

	return
}

// WriteRegister writes the register at offset.
//
// A wide write stores the high word at offset first, then the low word at
// offset+4. A narrow write stores the low 32 bits of data.
func WriteRegister(region Region, offset uint32, data uint64, wide bool) {
	at := uint64(offset)

	if !wide {
		region.store(at, uint32(data))
		return
	}

	region.store(at, uint32(data>>32))
	region.store(at+WORD_SIZE, uint32(data))
}

// ReadField reads a bit field of the 32-bit register at offset.
func ReadField(region Region, offset uint32, desc field.Descriptor) uint32 {
	return desc.Extract(region.load(uint64(offset)))
}

// WriteField replaces a bit field of the 32-bit register at offset.
// Data is truncated to the field width.
//
// The register is read, modified and written back with a single store. An
// external agent writing the register between the read and the store loses
// its update.
func WriteField(region Region, offset uint32, data uint64, desc field.Descriptor) {
	at := uint64(offset)
	region.store(at, desc.Insert(region.load(at), data))
}
