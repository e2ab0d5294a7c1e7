package price

import (
	"errors"
	"fmt"
)

// ErrArithmetic is the root of every calculation failure.
var ErrArithmetic = errors.New("arithmetic failure")

var (
	ErrDivisionByZero   = fmt.Errorf("%w: division by zero", ErrArithmetic)
	ErrInvalidReserves  = fmt.Errorf("%w: invalid reserves", ErrArithmetic)
	ErrTickOutOfRange   = fmt.Errorf("%w: tick out of range", ErrArithmetic)
	ErrInvalidSqrtPrice = fmt.Errorf("%w: invalid sqrt price", ErrArithmetic)
	ErrNonFinite        = fmt.Errorf("%w: non-finite result", ErrArithmetic)
)
