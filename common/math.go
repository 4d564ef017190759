package common

import (
	"errors"
	"math/bits"
)

var (
	// ErrOverflow is returned when the result of amount arithmetic does not
	// fit into 64 bits.
	ErrOverflow = errors.New("amount overflow")
	// ErrUnderflow is returned when subtraction would make amount negative.
	ErrUnderflow = errors.New("amount underflow")
)

// AddAmount returns a+b or ErrOverflow.
func AddAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SubAmount returns a-b or ErrUnderflow if b > a.
func SubAmount(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// MulAmount returns a*b or ErrOverflow.
func MulAmount(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}
