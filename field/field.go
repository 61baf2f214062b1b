// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package field encodes and decodes bit-field descriptors within a 32-bit
// register.
//
// A packed field specifier carries the field width in bits 24-31 and the
// position of its least significant bit in bits 16-23. The specifiers 0 and
// FIELD_WHOLE both select the whole register.
package field

import (
	"errors"

	"github.com/ezrec/pcireg/translate"
)

var f = translate.From

const (
	FIELD_WHOLE = 0x2000_0000 // 32 bits at position 0; same as no field.

	WIDTH_SHIFT    = 24
	POSITION_SHIFT = 16
	SPEC_BYTE      = 0xff

	REGISTER_BITS = 32
)

var (
	ErrFieldWidth    = errors.New(f("invalid field width"))
	ErrFieldPosition = errors.New(f("invalid field position"))
)

// Descriptor is a contiguous run of bits within a 32-bit register.
type Descriptor struct {
	Width    uint8 // Number of bits, 1..32
	Position uint8 // Index of the least significant bit, 0..31
}

// Decode unpacks a field specifier. ok is false when the specifier selects
// the whole register.
func Decode(spec uint32) (desc Descriptor, ok bool, err error) {
	if spec == 0 || spec == FIELD_WHOLE {
		return
	}

	width := (spec >> WIDTH_SHIFT) & SPEC_BYTE
	position := (spec >> POSITION_SHIFT) & SPEC_BYTE

	if width == 0 || width > REGISTER_BITS {
		err = &ErrSpec{Spec: spec, Err: ErrFieldWidth}
		return
	}
	if position+width > REGISTER_BITS {
		err = &ErrSpec{Spec: spec, Err: ErrFieldPosition}
		return
	}

	desc = Descriptor{Width: uint8(width), Position: uint8(position)}
	ok = true

	return
}

// Encode packs a descriptor into a field specifier.
func Encode(desc Descriptor) uint32 {
	return uint32(desc.Width)<<WIDTH_SHIFT | uint32(desc.Position)<<POSITION_SHIFT
}

// Mask returns a mask of the low width bits.
func Mask(width uint) (mask uint32, err error) {
	if width == 0 || width > REGISTER_BITS {
		err = ErrFieldWidth
		return
	}

	mask = uint32((uint64(1) << width) - 1)

	return
}

// Validate checks the descriptor against the register width.
func (desc Descriptor) Validate() (err error) {
	switch {
	case desc.Width == 0 || desc.Width > REGISTER_BITS:
		err = ErrFieldWidth
	case uint(desc.Position)+uint(desc.Width) > REGISTER_BITS:
		err = ErrFieldPosition
	}

	return
}

// Mask returns the unshifted mask of the field. The descriptor must be valid.
func (desc Descriptor) Mask() uint32 {
	return uint32((uint64(1) << desc.Width) - 1)
}

// Extract returns the field's bits from a register value.
func (desc Descriptor) Extract(value uint32) uint32 {
	return (value >> desc.Position) & desc.Mask()
}

// Insert replaces the field's bits in a register value with data, truncated
// to the field width.
func (desc Descriptor) Insert(value uint32, data uint64) uint32 {
	mask := desc.Mask()
	bits := uint32(data) & mask

	return (value & ^(mask << desc.Position)) | (bits << desc.Position)
}

func (desc Descriptor) String() string {
	return f("[%d:%d]", uint(desc.Position)+uint(desc.Width)-1, desc.Position)
}
