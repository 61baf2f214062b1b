// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package register

import (
	"sync/atomic"
	"unsafe"
)

const (
	WORD_SIZE = 4 // Bytes in a 32-bit register.
)

// Region is a memory mapped range of device registers.
type Region struct {
	Index    int    // Resource index within the device.
	Physical uint64 // Physical (bus) address of the first byte, if known.
	Bytes    []byte // Mapped registers.
}

// Size of the region in bytes.
func (region Region) Size() uint64 {
	return uint64(len(region.Bytes))
}

// word returns the 32-bit register at offset. Panics if the register is not
// entirely within the region.
func (region Region) word(offset uint64) *uint32 {
	reg := region.Bytes[offset : offset+WORD_SIZE : offset+WORD_SIZE]
	return (*uint32)(unsafe.Pointer(&reg[0]))
}

// load performs a single 32-bit read.
func (region Region) load(offset uint64) uint32 {
	return atomic.LoadUint32(region.word(offset))
}

// store performs a single 32-bit write.
func (region Region) store(offset uint64, value uint32) {
	atomic.StoreUint32(region.word(offset), value)
}
