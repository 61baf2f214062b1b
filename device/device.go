// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package device maps the register regions of a PCI function, or of a raw
// physical address range, into the process.
package device

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ezrec/pcireg/register"
)

const (
	SYSFS_PCI_DEVICES = "/sys/bus/pci/devices" // Root of the PCI functions in sysfs.
	DEV_MEM           = "/dev/mem"             // Physical memory device for direct mode.
	DIRECT_SIZE       = 0x10000                // Bytes mapped in direct mode.

	PCI_DOMAIN = "0000" // Domain assumed for bus:slot.function addresses.
)

var (
	reVendorDevice = regexp.MustCompile(`^[0-9a-fA-F]{1,4}:[0-9a-fA-F]{1,4}$`)
	rePciAddress   = regexp.MustCompile(`^([0-9a-fA-F]{4}:)?[0-9a-fA-F]{2}:[0-9a-fA-F]{2}\.[0-7]$`)
)

// Device is an opened device with its register regions mapped.
type Device struct {
	Verbose bool   // If set, logs the mapped regions.
	Address string // PCI address, or the physical address in direct mode.

	regions  []register.Region
	mappings [][]byte
}

// Regions returns the mapped regions, in BAR order.
func (dev *Device) Regions() []register.Region {
	return dev.regions
}

// Region returns the index'th mapped region.
func (dev *Device) Region(index int) (region register.Region, err error) {
	if index < 0 || index >= len(dev.regions) {
		err = &ErrRegionOutOfRange{Index: index, Count: len(dev.regions)}
		return
	}

	region = dev.regions[index]

	return
}

// Close unmaps all regions.
func (dev *Device) Close() (err error) {
	var errs []error
	for _, mapping := range dev.mappings {
		errs = append(errs, unix.Munmap(mapping))
	}

	dev.regions = nil
	dev.mappings = nil
	err = errors.Join(errs...)

	return
}

func readHex(sysfs fs.FS, name string) (value uint64, err error) {
	data, err := fs.ReadFile(sysfs, name)
	if err != nil {
		return
	}

	value, err = strconv.ParseUint(strings.TrimSpace(string(data)), 0, 64)

	return
}

// Find returns the PCI address of the function named by id, which is either
// vendor:device in hex (the first matching function is used) or a PCI
// address. sysfs is the PCI devices directory.
func Find(sysfs fs.FS, id string) (address string, err error) {
	switch {
	case rePciAddress.MatchString(id):
		address = strings.ToLower(id)
		if len(address) == len("00:00.0") {
			address = PCI_DOMAIN + ":" + address
		}
		_, err = fs.Stat(sysfs, address)
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrDeviceNotFound
		}
		return
	case reVendorDevice.MatchString(id):
	default:
		err = ErrDeviceId(id)
		return
	}

	ids := strings.SplitN(id, ":", 2)
	vendor, _ := strconv.ParseUint(ids[0], 16, 16)
	device, _ := strconv.ParseUint(ids[1], 16, 16)

	entries, err := fs.ReadDir(sysfs, ".")
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		v, v_err := readHex(sysfs, name+"/vendor")
		d, d_err := readHex(sysfs, name+"/device")
		if v_err != nil || d_err != nil {
			continue
		}
		if v == vendor && d == device {
			address = name
			return
		}
	}

	err = ErrDeviceNotFound

	return
}

// mapFile maps size bytes of the file at offset. A size of zero maps the
// whole file.
func mapFile(path string, offset int64, size int) (mapping []byte, err error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return
	}
	defer file.Close()

	if size == 0 {
		var info os.FileInfo
		info, err = file.Stat()
		if err != nil {
			return
		}
		size = int(info.Size())
		if size == 0 {
			return
		}
	}

	mapping, err = unix.Mmap(int(file.Fd()), offset, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)

	return
}

// Open maps the memory BARs of the PCI function id. root is the sysfs PCI
// devices directory, normally SYSFS_PCI_DEVICES.
func Open(root string, id string) (dev *Device, err error) {
	defer func() {
		if err != nil {
			err = &ErrOpen{Id: id, Err: err}
		}
	}()

	sysfs := os.DirFS(root)

	address, err := Find(sysfs, id)
	if err != nil {
		return
	}

	inf, err := sysfs.Open(address + "/resource")
	if err != nil {
		return
	}
	resources, err := ParseResources(inf)
	inf.Close()
	if err != nil {
		return
	}

	dev = &Device{Address: address}
	for _, res := range resources {
		if !res.IsMemory() {
			continue
		}

		var mapping []byte
		path := filepath.Join(root, address, fmt.Sprintf("resource%d", res.Index))
		mapping, err = mapFile(path, 0, 0)
		if err != nil {
			dev.Close()
			dev = nil
			return
		}
		if len(mapping) == 0 {
			continue
		}

		dev.mappings = append(dev.mappings, mapping)
		dev.regions = append(dev.regions, register.Region{
			Index:    res.Index,
			Physical: res.Start,
			Bytes:    mapping,
		})
	}

	if len(dev.regions) == 0 {
		dev = nil
		err = ErrNoRegions
		return
	}

	return
}

// OpenDirect maps size bytes of physical memory starting at physical, through
// the memory device at path (normally DEV_MEM). The device has a single
// region.
func OpenDirect(path string, physical uint64, size int) (dev *Device, err error) {
	address := fmt.Sprintf("%#x", physical)
	defer func() {
		if err != nil {
			err = &ErrOpen{Id: address, Err: err}
		}
	}()

	page := uint64(os.Getpagesize())
	base := physical &^ (page - 1)
	skew := int(physical - base)

	mapping, err := mapFile(path, int64(base), size+skew)
	if err != nil {
		return
	}

	dev = &Device{
		Address:  address,
		mappings: [][]byte{mapping},
		regions: []register.Region{{
			Physical: physical,
			Bytes:    mapping[skew : skew+size : skew+size],
		}},
	}

	return
}

// Log the mapped regions, if verbose.
func (dev *Device) Log() {
	if !dev.Verbose {
		return
	}

	for n, region := range dev.regions {
		log.Printf("%v: region %d: BAR%d 0x%x bytes at 0x%x", dev.Address, n, region.Index, region.Size(), region.Physical)
	}
}
