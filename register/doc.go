// Package register reads and writes 32-bit and 64-bit registers, and bit
// fields within 32-bit registers, in a memory mapped region.
//
// ReadRegister, WriteRegister, ReadField and WriteField trust their offset;
// callers validate it first with Validate, or go through Execute, which
// validates the complete Request, including 32-bit alignment of the offset.
// An unaligned offset given directly to the access functions faults on
// platforms without unaligned atomic loads, such as arm64.
//
// A 64-bit (wide) register is a pair of adjacent 32-bit registers with the
// high word at the lower address.
//
// Field writes are a read-modify-write of a single register, and are not
// atomic with respect to the device or other processes.
package register
