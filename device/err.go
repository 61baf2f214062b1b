package device

import (
	"errors"

	"github.com/ezrec/pcireg/translate"
)

var f = translate.From

var (
	ErrDeviceNotFound = errors.New(f("device not found"))
	ErrNoRegions      = errors.New(f("no memory regions"))
)

// ErrDeviceId indicates an identifier that is neither vendor:device nor a
// PCI address.
type ErrDeviceId string

func (err ErrDeviceId) Error() string {
	return f("'%v' is not a vendor:device or PCI address", string(err))
}

// ErrRegionOutOfRange indicates a request for a region the device does not
// have.
type ErrRegionOutOfRange struct {
	Index int
	Count int
}

func (err *ErrRegionOutOfRange) Error() string {
	return f("illegal PCI region %d: device has %d regions", err.Index, err.Count)
}

// ErrResource locates a malformed line in a sysfs resource file.
type ErrResource struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrResource) Error() string {
	if err.Err == nil {
		return f("resource line %d '%v' malformed", err.LineNo, err.Line)
	}
	return f("resource line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrResource) Unwrap() error {
	return err.Err
}

// ErrOpen wraps a failure to open a device.
type ErrOpen struct {
	Id  string
	Err error
}

func (err *ErrOpen) Error() string {
	return f("%v: %v", err.Id, err.Err)
}

func (err *ErrOpen) Unwrap() error {
	return err.Err
}
