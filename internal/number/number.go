// Package number parses the numeric values given on the command line.
package number

import (
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// IsNumeric reports whether word is meant as a number rather than a symbol
// name: it starts with a digit, or is a $(...) expression.
func IsNumeric(word string) bool {
	if len(word) == 0 {
		return false
	}
	return isExpression(word) || (word[0] >= '0' && word[0] <= '9')
}

func isExpression(word string) bool {
	return strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")")
}

// Parse a command line value. Underscores group digits (0x1234_5678) and
// are ignored. A 0x prefix selects hexadecimal, otherwise the value is
// decimal. $(...) is evaluated as an integer expression.
func Parse(word string) (value uint64, err error) {
	return ParseWith(word, nil)
}

// ParseWith is Parse, with names available to $(...) expressions.
func ParseWith(word string, predeclared starlark.StringDict) (value uint64, err error) {
	if isExpression(word) {
		return Eval(word[2:len(word)-1], predeclared)
	}

	digits := strings.ReplaceAll(word, "_", "")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		value, err = strconv.ParseUint(digits[2:], 16, 64)
	} else {
		value, err = strconv.ParseUint(digits, 10, 64)
	}
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// Parse32 parses a command line value that must fit in 32 bits.
func Parse32(word string) (value uint32, err error) {
	return Parse32With(word, nil)
}

// Parse32With is Parse32, with names available to $(...) expressions.
func Parse32With(word string, predeclared starlark.StringDict) (value uint32, err error) {
	v64, err := ParseWith(word, predeclared)
	if err != nil {
		return
	}
	if v64 > 0xffff_ffff {
		err = ErrRange(word)
		return
	}

	value = uint32(v64)

	return
}

// Eval evaluates an integer expression, for example "STATUS_REG + 4*3".
// predeclared may be nil.
func Eval(expr string, predeclared starlark.StringDict) (value uint64, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, predeclared)
	if err != nil {
		err = &ErrExpression{Expr: expr, Err: err}
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = &ErrExpression{Expr: expr, Err: ErrNotInteger}
		return
	}

	value, ok = st_int.Uint64()
	if !ok {
		err = &ErrExpression{Expr: expr, Err: ErrRange(st_int.String())}
		return
	}

	return
}
