package device

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	IORESOURCE_IO  = 0x100 // I/O port BAR
	IORESOURCE_MEM = 0x200 // Memory BAR

	PCI_BARS = 6 // Standard BARs; further resource lines are ROM and bridge windows.
)

// Resource is one line of a PCI function's sysfs 'resource' file.
type Resource struct {
	Index int
	Start uint64
	End   uint64
	Flags uint64
}

// Size of the resource in bytes.
func (res Resource) Size() uint64 {
	if res.End <= res.Start {
		return 0
	}
	return res.End - res.Start + 1
}

// IsMemory reports whether the resource is a memory BAR that can be mapped.
func (res Resource) IsMemory() bool {
	return res.Index < PCI_BARS && (res.Flags&IORESOURCE_MEM) != 0 && res.Size() != 0
}

// ParseResources parses a sysfs 'resource' file.
func ParseResources(r io.Reader) (resources []Resource, err error) {
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		words := strings.Fields(scanner.Text())
		if len(words) == 0 {
			continue
		}
		if len(words) != 3 {
			err = &ErrResource{LineNo: lineno, Line: scanner.Text()}
			return
		}

		res := Resource{Index: len(resources)}
		for n, dst := range []*uint64{&res.Start, &res.End, &res.Flags} {
			*dst, err = strconv.ParseUint(words[n], 0, 64)
			if err != nil {
				err = &ErrResource{LineNo: lineno, Line: scanner.Text(), Err: err}
				return
			}
		}

		resources = append(resources, res)
	}

	err = scanner.Err()

	return
}
