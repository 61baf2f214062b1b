package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ezrec/pcireg/device"
	"github.com/ezrec/pcireg/field"
	"github.com/ezrec/pcireg/internal/number"
	"github.com/ezrec/pcireg/register"
	"github.com/ezrec/pcireg/symbol"
)

const (
	ENV_DEVICE  = "pcireg_device"  // Default for -d
	ENV_REGION  = "pcireg_region"  // Default for -r
	ENV_DEFINES = "pcireg_defines" // Default for -f

	DEFAULT_DEVICE  = "10EE:903F"
	DEFAULT_REGION  = 0
	DEFAULT_DEFINES = "pcireg.h"

	REGION_UNSET = -1
)

// Options of a single invocation.
type Options struct {
	Verbose bool   // Log the steps of the access.
	Wide    bool   // 64-bit access.
	Device  string // vendor:device or PCI address.
	Direct  string // Physical address for direct mode; overrides Device.
	Region  int    // Region index, or REGION_UNSET.
	Defines string // Symbol definitions file.

	Target string   // Register address or symbol.
	Data   []string // Value to write; empty for a read.

	SysfsRoot string // PCI devices directory.
	MemPath   string // Physical memory device.
}

// Defaults fills unset options from the environment, then from the fixed
// defaults.
func (opts *Options) Defaults(getenv func(string) string) (err error) {
	if len(opts.Device) == 0 {
		opts.Device = getenv(ENV_DEVICE)
	}
	if len(opts.Device) == 0 {
		opts.Device = DEFAULT_DEVICE
	}

	if opts.Region == REGION_UNSET {
		if env := getenv(ENV_REGION); len(env) != 0 {
			var region uint32
			region, err = number.Parse32(env)
			if err != nil {
				err = fmt.Errorf("%v: %w", ENV_REGION, err)
				return
			}
			opts.Region = int(region)
		}
	}
	if opts.Region == REGION_UNSET {
		opts.Region = DEFAULT_REGION
	}

	if len(opts.Defines) == 0 {
		opts.Defines = getenv(ENV_DEFINES)
	}
	if len(opts.Defines) == 0 {
		opts.Defines = DEFAULT_DEFINES
	}

	if len(opts.SysfsRoot) == 0 {
		opts.SysfsRoot = device.SYSFS_PCI_DEVICES
	}
	if len(opts.MemPath) == 0 {
		opts.MemPath = device.DEV_MEM
	}

	return
}

func (opts *Options) open() (dev *device.Device, err error) {
	if len(opts.Direct) != 0 {
		var physical uint64
		physical, err = number.Parse(opts.Direct)
		if err != nil {
			return
		}
		dev, err = device.OpenDirect(opts.MemPath, physical, device.DIRECT_SIZE)
	} else {
		dev, err = device.Open(opts.SysfsRoot, opts.Device)
	}
	if err != nil {
		return
	}

	dev.Verbose = opts.Verbose
	dev.Log()

	return
}

// names returns the register address of the first definition of each
// symbol in the definitions file, for use in $(...) expressions. A missing
// definitions file leaves no names defined.
func (opts *Options) names() (names starlark.StringDict, err error) {
	names = starlark.StringDict{}

	inf, err := os.Open(opts.Defines)
	if err != nil {
		err = nil
		return
	}
	defer inf.Close()

	for entry, scan_err := range symbol.Scan(inf) {
		if scan_err != nil {
			err = &symbol.ErrFileUnreadable{Path: opts.Defines, Err: scan_err}
			return
		}
		if entry.Err != nil {
			continue
		}
		if _, ok := names[entry.Name]; ok {
			continue
		}
		names[entry.Name] = starlark.MakeUint64(uint64(entry.Address))
	}

	return
}

// target resolves the register offset and field.
func (opts *Options) target(names starlark.StringDict) (offset uint32, desc *field.Descriptor, err error) {
	var spec uint32

	if number.IsNumeric(opts.Target) {
		offset, err = number.Parse32With(opts.Target, names)
		if err != nil {
			return
		}
	} else {
		var value uint64
		value, err = symbol.Resolve(opts.Target, opts.Defines)
		if err != nil {
			return
		}
		offset, spec = symbol.Split(value)
		if opts.Verbose {
			log.Printf("%v: %v = 0x%x", opts.Defines, opts.Target, value)
		}
	}

	fd, ok, err := field.Decode(spec)
	if err != nil {
		return
	}
	if ok {
		desc = &fd
	}

	return
}

func (opts *Options) hasExpression() bool {
	for _, word := range append([]string{opts.Target}, opts.Data...) {
		if strings.HasPrefix(word, "$(") {
			return true
		}
	}
	return false
}

// Request builds the register access for region.
func (opts *Options) Request(region register.Region) (req register.Request, err error) {
	req = register.Request{
		Verbose: opts.Verbose,
		Region:  region,
	}

	var names starlark.StringDict
	if opts.hasExpression() {
		names, err = opts.names()
		if err != nil {
			return
		}
	}

	req.Offset, req.Field, err = opts.target(names)
	if err != nil {
		return
	}

	if opts.Wide {
		req.Width = register.WIDE
	}

	if len(opts.Data) != 0 {
		req.Direction = register.WRITE
		req.Data, err = number.ParseWith(opts.Data[0], names)
		if err != nil {
			return
		}
	}

	return
}

// Run performs the access, printing the value of a read to out.
func (opts *Options) Run(out io.Writer) (err error) {
	dev, err := opts.open()
	if err != nil {
		return
	}
	defer dev.Close()

	region, err := dev.Region(opts.Region)
	if err != nil {
		return
	}

	req, err := opts.Request(region)
	if err != nil {
		return
	}

	result, err := register.Execute(req)
	if err != nil {
		return
	}

	if req.Direction == register.WRITE {
		return
	}

	switch {
	case req.Field != nil:
		_, err = fmt.Fprintf(out, "0x%X (%d)\n", result.Value, result.Value)
	case result.Width == register.WIDE:
		_, err = fmt.Fprintf(out, "0x%016X (%d)\n", result.Value, result.Value)
	default:
		_, err = fmt.Fprintf(out, "0x%08X (%d)\n", result.Value, result.Value)
	}

	return
}
