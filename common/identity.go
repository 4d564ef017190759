package common

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// IdentitySize is a length of the account identity in bytes.
const IdentitySize = 32

// Identity is a fixed-width public identifier of the ledger account (seller,
// buyer or custodian).
type Identity [IdentitySize]byte

// AssetID identifies fungible asset registered in the ledger.
type AssetID uint64

// DecodeIdentity decodes Identity from the base58 string.
func DecodeIdentity(s string) (Identity, error) {
	var id Identity

	b, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("decode base58: %w", err)
	}

	if len(b) != IdentitySize {
		return id, fmt.Errorf("invalid identity length %d, expected %d", len(b), IdentitySize)
	}

	copy(id[:], b)

	return id, nil
}

// String returns base58-encoded Identity.
func (x Identity) String() string {
	return base58.Encode(x[:])
}

// IsZero checks whether Identity consists of zero bytes only.
func (x Identity) IsZero() bool {
	return x == Identity{}
}
