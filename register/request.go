// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package register

import (
	"log"

	"github.com/ezrec/pcireg/field"
)

// Validate checks that offset starts within the region.
//
// Only the first byte is checked; see Request.Validate for the check of the
// complete access.
func Validate(offset uint32, region Region) (err error) {
	if uint64(offset) >= region.Size() {
		err = &ErrAddressOutOfRange{Offset: offset, Size: region.Size()}
	}
	return
}

// Request is a single register access.
type Request struct {
	Verbose   bool              // If set, logs the access.
	Region    Region            // Region holding the register.
	Offset    uint32            // Byte offset of the register within Region.
	Field     *field.Descriptor // Bit field, or nil for the whole register.
	Direction Direction         // READ or WRITE.
	Width     Width             // Requested width; fields are always NARROW.
	Data      uint64            // Data to write.
}

// Result of an executed request.
type Result struct {
	Value uint64 // Value read. Zero for writes.
	Width Width  // Width actually used.
}

// EffectiveWidth returns the width the access will use.
func (req Request) EffectiveWidth() Width {
	if req.Field != nil {
		return NARROW
	}
	return req.Width
}

// Validate checks the field descriptor, that the complete access lies
// within the region, and that the register is 32-bit aligned.
func (req Request) Validate() (err error) {
	if req.Field != nil {
		err = req.Field.Validate()
		if err != nil {
			return
		}
	}

	err = Validate(req.Offset, req.Region)
	if err != nil {
		return
	}

	width := req.EffectiveWidth()
	if uint64(req.Offset)+width.Bytes() > req.Region.Size() {
		err = &ErrAddressOutOfRange{Offset: req.Offset, Width: width, Size: req.Region.Size()}
		return
	}

	if req.Offset%WORD_SIZE != 0 {
		err = &ErrAddressMisaligned{Offset: req.Offset}
	}

	return
}

// Execute validates and performs the request.
func Execute(req Request) (result Result, err error) {
	err = req.Validate()
	if err != nil {
		return
	}

	result.Width = req.EffectiveWidth()
	wide := result.Width == WIDE

	if req.Verbose {
		if req.Field != nil && req.Width == WIDE {
			log.Printf("field %v: using %v access", req.Field, result.Width)
		}
		target := ""
		if req.Field != nil {
			target = req.Field.String()
		}
		log.Printf("%v region %d offset 0x%x%v %v", req.Direction, req.Region.Index, req.Offset, target, result.Width)
	}

	switch {
	case req.Direction == READ && req.Field != nil:
		result.Value = uint64(ReadField(req.Region, req.Offset, *req.Field))
	case req.Direction == READ:
		result.Value = ReadRegister(req.Region, req.Offset, wide)
	case req.Field != nil:
		WriteField(req.Region, req.Offset, req.Data, *req.Field)
	default:
		WriteRegister(req.Region, req.Offset, req.Data, wide)
	}

	return
}
