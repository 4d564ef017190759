/*
Package rent computes storage rent of the persisted records.

Every record kept in the ledger storage must be backed by the rent paid in the
smallest units of the payment currency. The rent is a fixed base fee plus a fee
for each byte of the record key and value. The same amount paid on record
creation is refunded on its removal, so the calculation depends on sizes only.
*/
package rent

import (
	"fmt"

	"github.com/nspcc-dev/escrow-market/common"
)

const (
	// DefaultBaseFee is a fee charged for any stored record.
	DefaultBaseFee = 2_500
	// DefaultPerByteFee is a fee charged for each byte of the record key and value.
	DefaultPerByteFee = 400
)

// Calculator calculates rent of the storage records.
type Calculator struct {
	BaseFee    uint64
	PerByteFee uint64
}

// Default returns Calculator with DefaultBaseFee and DefaultPerByteFee.
func Default() Calculator {
	return Calculator{
		BaseFee:    DefaultBaseFee,
		PerByteFee: DefaultPerByteFee,
	}
}

// For returns rent of the record with the given key and value sizes in bytes.
// Returns common.ErrOverflow if the rent does not fit into 64 bits.
func (x Calculator) For(keySize, valueSize int) (uint64, error) {
	if keySize < 0 || valueSize < 0 {
		return 0, fmt.Errorf("negative record size: key %d, value %d", keySize, valueSize)
	}

	size, err := common.AddAmount(uint64(keySize), uint64(valueSize))
	if err != nil {
		return 0, err
	}

	byteFee, err := common.MulAmount(size, x.PerByteFee)
	if err != nil {
		return 0, fmt.Errorf("per-byte fee: %w", err)
	}

	res, err := common.AddAmount(x.BaseFee, byteFee)
	if err != nil {
		return 0, fmt.Errorf("base fee: %w", err)
	}

	return res, nil
}
