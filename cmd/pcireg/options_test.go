package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pcireg/device"
	"github.com/ezrec/pcireg/field"
	"github.com/ezrec/pcireg/internal/number"
	"github.com/ezrec/pcireg/register"
	"github.com/ezrec/pcireg/symbol"
)

const testDefines = `// Test board
#define STATUS_REG   0x00000104
#define STATUS_LANES 0x0408000000000104
#define STATUS_ALL   0x2000000000000104
#define COUNTER      0x00000200
`

type testBoard struct {
	Root    string
	Defines string
	Bar0    string
}

func newTestBoard(t *testing.T) (board testBoard) {
	dir := t.TempDir()
	board.Root = filepath.Join(dir, "devices")
	pci := filepath.Join(board.Root, "0000:03:00.0")
	board.Bar0 = filepath.Join(pci, "resource0")
	board.Defines = filepath.Join(dir, "regs.h")

	files := map[string][]byte{
		filepath.Join(pci, "vendor"):   []byte("0x10ee\n"),
		filepath.Join(pci, "device"):   []byte("0x903f\n"),
		filepath.Join(pci, "resource"): []byte("0x00000000fb000000 0x00000000fb000fff 0x0000000000040200\n"),
		board.Bar0:                     make([]byte, 0x1000),
		board.Defines:                  []byte(testDefines),
	}

	for path, data := range files {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(path, data, 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	return
}

func (board testBoard) options(target string, data ...string) *Options {
	opts := &Options{
		Region:    REGION_UNSET,
		Defines:   board.Defines,
		SysfsRoot: board.Root,
		Target:    target,
		Data:      data,
	}
	opts.Defaults(func(string) string { return "" })
	return opts
}

func (board testBoard) run(t *testing.T, opts *Options) (output string, err error) {
	out := &bytes.Buffer{}
	err = opts.Run(out)
	output = out.String()
	return
}

func (board testBoard) peek(t *testing.T, offset int) uint32 {
	data, err := os.ReadFile(board.Bar0)
	if err != nil {
		t.Fatal(err)
	}
	return binary.NativeEndian.Uint32(data[offset:])
}

func TestDefaults(t *testing.T) {
	assert := assert.New(t)

	env := map[string]string{}
	getenv := func(key string) string { return env[key] }

	opts := &Options{Region: REGION_UNSET}
	assert.NoError(opts.Defaults(getenv))
	assert.Equal(DEFAULT_DEVICE, opts.Device)
	assert.Equal(DEFAULT_REGION, opts.Region)
	assert.Equal(DEFAULT_DEFINES, opts.Defines)
	assert.Equal(device.SYSFS_PCI_DEVICES, opts.SysfsRoot)
	assert.Equal(device.DEV_MEM, opts.MemPath)

	env[ENV_DEVICE] = "01:00.0"
	env[ENV_REGION] = "0x2"
	env[ENV_DEFINES] = "board.h"
	opts = &Options{Region: REGION_UNSET}
	assert.NoError(opts.Defaults(getenv))
	assert.Equal("01:00.0", opts.Device)
	assert.Equal(2, opts.Region)
	assert.Equal("board.h", opts.Defines)

	// Flags win over the environment.
	opts = &Options{Device: "8086:1237", Region: 1, Defines: "other.h"}
	assert.NoError(opts.Defaults(getenv))
	assert.Equal("8086:1237", opts.Device)
	assert.Equal(1, opts.Region)
	assert.Equal("other.h", opts.Defines)

	env[ENV_REGION] = "two"
	opts = &Options{Region: REGION_UNSET}
	assert.Error(opts.Defaults(getenv))
}

func TestRun_Register(t *testing.T) {
	assert := assert.New(t)

	board := newTestBoard(t)

	output, err := board.run(t, board.options("0x0000_0200", "1234_5678"))
	assert.NoError(err)
	assert.Equal("", output)
	assert.Equal(uint32(12345678), board.peek(t, 0x200))

	output, err = board.run(t, board.options("COUNTER"))
	assert.NoError(err)
	assert.Equal("0x00BC614E (12345678)\n", output)

	opts := board.options("0x300", "0x0102_0304_0506_0708")
	opts.Wide = true
	_, err = board.run(t, opts)
	assert.NoError(err)
	assert.Equal(uint32(0x0102_0304), board.peek(t, 0x300))
	assert.Equal(uint32(0x0506_0708), board.peek(t, 0x304))

	opts = board.options("$(0x300)")
	opts.Wide = true
	output, err = board.run(t, opts)
	assert.NoError(err)
	assert.Equal("0x0102030405060708 (72623859790382856)\n", output)

	// Expressions see the address of each definition.
	_, err = board.run(t, board.options("$(COUNTER + 4)", "$(STATUS_REG + 1)"))
	assert.NoError(err)
	assert.Equal(uint32(0x105), board.peek(t, 0x204))

	output, err = board.run(t, board.options("$(COUNTER + 4)"))
	assert.NoError(err)
	assert.Equal("0x00000105 (261)\n", output)

	// Only the address half of a field definition is bound.
	output, err = board.run(t, board.options("$(STATUS_LANES + 0x100)"))
	assert.NoError(err)
	assert.Equal("0x00000105 (261)\n", output)

	_, err = board.run(t, board.options("$(MISSING + 4)"))
	var expr *number.ErrExpression
	assert.True(errors.As(err, &expr))
}

func TestRun_Field(t *testing.T) {
	assert := assert.New(t)

	board := newTestBoard(t)

	output, err := board.run(t, board.options("STATUS_REG"))
	assert.NoError(err)
	assert.Equal("0x00000000 (0)\n", output)

	_, err = board.run(t, board.options("STATUS_LANES", "0xF"))
	assert.NoError(err)
	assert.Equal(uint32(0x0000_0f00), board.peek(t, 0x104))

	output, err = board.run(t, board.options("STATUS_LANES"))
	assert.NoError(err)
	assert.Equal("0xF (15)\n", output)

	// Wide is ignored for fields.
	opts := board.options("STATUS_LANES")
	opts.Wide = true
	opts.Verbose = true
	output, err = board.run(t, opts)
	assert.NoError(err)
	assert.Equal("0xF (15)\n", output)

	// The 0x20000000 specifier is the whole register.
	output, err = board.run(t, board.options("STATUS_ALL"))
	assert.NoError(err)
	assert.Equal("0x00000F00 (3840)\n", output)

	_, err = board.run(t, board.options("STATUS_ALL", "0x12345"))
	assert.NoError(err)
	assert.Equal(uint32(0x12345), board.peek(t, 0x104))
}

func TestRun_Errors(t *testing.T) {
	assert := assert.New(t)

	board := newTestBoard(t)

	_, err := board.run(t, board.options("0x1000"))
	var oor *register.ErrAddressOutOfRange
	assert.True(errors.As(err, &oor))

	opts := board.options("0xffc")
	opts.Wide = true
	_, err = board.run(t, opts)
	assert.True(errors.As(err, &oor))
	assert.Equal(register.WIDE, oor.Width)

	opts = board.options("0x0")
	opts.Region = 1
	_, err = board.run(t, opts)
	var region *device.ErrRegionOutOfRange
	assert.True(errors.As(err, &region))

	_, err = board.run(t, board.options("MISSING"))
	var notfound *symbol.ErrNotFound
	assert.True(errors.As(err, &notfound))

	opts = board.options("STATUS_REG")
	opts.Defines = filepath.Join(t.TempDir(), "missing.h")
	_, err = board.run(t, opts)
	var unreadable *symbol.ErrFileUnreadable
	assert.True(errors.As(err, &unreadable))

	opts = board.options("0x0")
	opts.Device = "1234:5678"
	_, err = board.run(t, opts)
	assert.True(errors.Is(err, device.ErrDeviceNotFound))

	_, err = board.run(t, board.options("0x102", "0xffff"))
	var misaligned *register.ErrAddressMisaligned
	assert.True(errors.As(err, &misaligned))
	assert.Equal(uint32(0), board.peek(t, 0x100))

	_, err = board.run(t, board.options("0x0", "0xzz"))
	assert.Error(err)
	assert.Equal(uint32(0), board.peek(t, 0))
}

func TestRun_Direct(t *testing.T) {
	assert := assert.New(t)

	page := os.Getpagesize()
	mem := filepath.Join(t.TempDir(), "mem")
	err := os.WriteFile(mem, make([]byte, page+device.DIRECT_SIZE), 0644)
	assert.NoError(err)

	opts := &Options{
		Region:  REGION_UNSET,
		Direct:  "0x1000",
		MemPath: mem,
		Target:  "0x10",
		Data:    []string{"0xcafe"},
	}
	assert.NoError(opts.Defaults(func(string) string { return "" }))

	out := &bytes.Buffer{}
	assert.NoError(opts.Run(out))

	opts.Data = nil
	assert.NoError(opts.Run(out))
	assert.Equal("0x0000CAFE (51966)\n", out.String())
}

func TestRequest(t *testing.T) {
	assert := assert.New(t)

	board := newTestBoard(t)
	region := register.Region{Bytes: make([]byte, 0x1000)}

	req, err := board.options("STATUS_LANES", "3").Request(region)
	assert.NoError(err)
	assert.Equal(uint32(0x104), req.Offset)
	assert.Equal(&field.Descriptor{Width: 4, Position: 8}, req.Field)
	assert.Equal(register.WRITE, req.Direction)
	assert.Equal(uint64(3), req.Data)

	req, err = board.options("STATUS_ALL").Request(region)
	assert.NoError(err)
	assert.Nil(req.Field)
	assert.Equal(register.READ, req.Direction)
}
