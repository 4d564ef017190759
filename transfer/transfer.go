/*
Package transfer provides companion transfers and their validation.

Companion transfer is a value transfer (payment in the ledger currency or an
asset transfer) submitted together with the marketplace operation in the same
atomic group. Transfers are executed by the ledger, this package only checks
that the transfer scheduled for execution matches expectations of the
operation. The whole group must be rejected if any check fails.
*/
package transfer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/escrow-market/common"
)

// Payment is a transfer of the ledger currency.
type Payment struct {
	Sender   common.Identity
	Receiver common.Identity
	Amount   uint64
}

// AssetTransfer is a transfer of the fungible asset units.
type AssetTransfer struct {
	Sender   common.Identity
	Receiver common.Identity
	Asset    common.AssetID
	Amount   uint64
}

// ErrMismatch is a base error of all validation failures.
var ErrMismatch = errors.New("companion transfer mismatch")

// Reason is a field-level reason of the companion transfer mismatch.
type Reason uint8

const (
	_ Reason = iota
	WrongSender
	WrongReceiver
	WrongAmount
	WrongAsset
	NonPositiveAmount
)

// String implements fmt.Stringer.
func (x Reason) String() string {
	switch x {
	default:
		return "UNKNOWN#" + strconv.Itoa(int(x))
	case WrongSender:
		return "wrong sender"
	case WrongReceiver:
		return "wrong receiver"
	case WrongAmount:
		return "wrong amount"
	case WrongAsset:
		return "wrong asset"
	case NonPositiveAmount:
		return "non-positive amount"
	}
}

// MismatchError describes the companion transfer field that did not match.
// MismatchError matches ErrMismatch in errors.Is.
type MismatchError struct {
	Reason   Reason
	Expected string
	Actual   string
}

// Error implements built-in error interface.
func (x *MismatchError) Error() string {
	if x.Expected == "" {
		return fmt.Sprintf("%v: %s (%s)", ErrMismatch, x.Reason, x.Actual)
	}
	return fmt.Sprintf("%v: %s (expected %s, got %s)", ErrMismatch, x.Reason, x.Expected, x.Actual)
}

// Unwrap returns ErrMismatch.
func (x *MismatchError) Unwrap() error {
	return ErrMismatch
}

func mismatch(r Reason, expected, actual fmt.Stringer) error {
	return &MismatchError{
		Reason:   r,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}

type decimal uint64

func (x decimal) String() string { return strconv.FormatUint(uint64(x), 10) }
