package number

import (
	"errors"

	"github.com/ezrec/pcireg/translate"
)

var f = translate.From

var (
	ErrNotInteger = errors.New(f("not an integer"))
)

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrRange string

func (err ErrRange) Error() string {
	return f("'%v' is out of range", string(err))
}

// ErrExpression wraps a failed $(...) evaluation.
type ErrExpression struct {
	Expr string
	Err  error
}

func (err *ErrExpression) Error() string {
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err *ErrExpression) Unwrap() error {
	return err.Err
}
