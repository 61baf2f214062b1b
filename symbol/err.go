package symbol

import (
	"github.com/ezrec/pcireg/translate"
)

var f = translate.From

// ErrNotFound indicates that no definition of Symbol exists in Path.
type ErrNotFound struct {
	Symbol string
	Path   string
}

func (err *ErrNotFound) Error() string {
	if len(err.Path) == 0 {
		return f("symbol %v not found", err.Symbol)
	}
	return f("symbol %v not found in %v", err.Symbol, err.Path)
}

// ErrFileUnreadable indicates the definitions file could not be read.
type ErrFileUnreadable struct {
	Path string
	Err  error
}

func (err *ErrFileUnreadable) Error() string {
	return f("%v: unreadable: %v", err.Path, err.Err)
}

func (err *ErrFileUnreadable) Unwrap() error {
	return err.Err
}

// ErrSyntax locates a malformed definition of the requested symbol.
type ErrSyntax struct {
	Path   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("%v: line %d '%v' %v", err.Path, err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
