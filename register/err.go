package register

import (
	"github.com/ezrec/pcireg/translate"
)

var f = translate.From

// ErrAddressOutOfRange indicates an access beyond the end of the region.
// Width is set when the start offset is valid but the access overruns.
type ErrAddressOutOfRange struct {
	Offset uint32
	Width  Width
	Size   uint64
}

func (err *ErrAddressOutOfRange) Error() string {
	if uint64(err.Offset) < err.Size {
		return f("illegal address 0x%x: %v access exceeds region size 0x%x", err.Offset, err.Width, err.Size)
	}
	return f("illegal address 0x%x: region size is 0x%x", err.Offset, err.Size)
}

// ErrAddressMisaligned indicates a register offset that is not a multiple of
// WORD_SIZE.
type ErrAddressMisaligned struct {
	Offset uint32
}

func (err *ErrAddressMisaligned) Error() string {
	return f("illegal address 0x%x: not 32-bit aligned", err.Offset)
}
