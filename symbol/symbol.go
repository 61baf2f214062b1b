// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package symbol resolves register names from a C header style definitions
// file.
//
// Only lines of exactly the shape
//
//	#define NAME VALUE
//
// are definitions. Blank lines, '//' comments and any other header content
// are ignored. VALUE is hexadecimal with a 0x prefix, otherwise decimal. Its
// low 32 bits are the register address and its high 32 bits the packed field
// specifier (see package field).
package symbol

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
)

const (
	DEFINE_KEYWORD = "#define"
	COMMENT_PREFIX = "//"
	DEFINE_TOKENS  = 3
	MAX_LINE       = 1 << 20

	ADDRESS_MASK = 0xffff_ffff
	FIELD_SHIFT  = 32
)

// Entry is a single definition line.
type Entry struct {
	LineNo  int    // Line number in the definitions file.
	Line    string // Source text.
	Name    string // Symbol name.
	Value   uint64 // Encoded value; 0 if Err is set.
	Err     error  // Value parse error, if any.
	Address uint32 // Register address.
	Field   uint32 // Packed field specifier.
}

// Split an encoded value into register address and field specifier.
func Split(value uint64) (address uint32, spec uint32) {
	address = uint32(value & ADDRESS_MASK)
	spec = uint32(value >> FIELD_SHIFT)
	return
}

// parseValue parses a plain integer literal. Unlike command line values,
// underscores are not accepted.
func parseValue(word string) (value uint64, err error) {
	if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X") {
		value, err = strconv.ParseUint(word[2:], 16, 64)
	} else {
		value, err = strconv.ParseUint(word, 10, 64)
	}
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// parseLine returns the definition on a line, if any.
func parseLine(line string, lineno int) (entry Entry, ok bool) {
	text := strings.TrimLeft(line, " \t\r\v\f")
	if len(text) == 0 || strings.HasPrefix(text, COMMENT_PREFIX) {
		return
	}

	words := strings.Fields(text)
	if len(words) != DEFINE_TOKENS || words[0] != DEFINE_KEYWORD {
		return
	}

	entry = Entry{
		LineNo: lineno,
		Line:   line,
		Name:   words[1],
	}

	entry.Value, entry.Err = parseValue(words[2])
	entry.Address, entry.Field = Split(entry.Value)
	ok = true

	return
}

// Scan returns an iterator over the definitions in r, in file order.
// A read error ends the sequence with a zero Entry and the error.
func Scan(r io.Reader) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(nil, MAX_LINE)
		lineno := 0
		for scanner.Scan() {
			lineno++
			entry, ok := parseLine(scanner.Text(), lineno)
			if !ok {
				continue
			}
			if !yield(entry, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Entry{}, err)
		}
	}
}

// Lookup returns the first definition of name in r.
func Lookup(r io.Reader, name string) (entry Entry, err error) {
	for candidate, scan_err := range Scan(r) {
		if scan_err != nil {
			err = scan_err
			return
		}
		if candidate.Name != name {
			continue
		}
		if candidate.Err != nil {
			err = &ErrSyntax{LineNo: candidate.LineNo, Line: candidate.Line, Err: candidate.Err}
			return
		}
		entry = candidate
		return
	}

	err = &ErrNotFound{Symbol: name}

	return
}

// Resolve returns the encoded value of the first definition of name in the
// definitions file at path.
func Resolve(name string, path string) (value uint64, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrFileUnreadable{Path: path, Err: err}
		return
	}
	defer inf.Close()

	entry, err := Lookup(inf, name)
	if err != nil {
		switch e := err.(type) {
		case *ErrNotFound:
			e.Path = path
		case *ErrSyntax:
			e.Path = path
		default:
			err = &ErrFileUnreadable{Path: path, Err: err}
		}
		return
	}

	value = entry.Value

	return
}
