package listing

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/escrow-market/common"
)

// Prefix is a storage namespace of listing records.
var Prefix = []byte("listings")

const (
	assetIDSize = 8

	// KeySize is the size of the encoded listing key including Prefix.
	KeySize = len("listings") + common.IdentitySize + assetIDSize
	// ValueSize is the size of the encoded listing value.
	ValueSize = 8 + 8
)

// Key identifies listing.
type Key struct {
	Owner common.Identity
	Asset common.AssetID
}

// Value is a mutable state of the listing.
type Value struct {
	// Quantity of the asset held by the custodian on behalf of the owner.
	Deposited uint64
	// Price per asset unit in the payment currency.
	UnitaryPrice uint64
}

// Listing groups listing key and value.
type Listing struct {
	Key
	Value
}

// Bytes returns storage key of the listing.
func (x Key) Bytes() []byte {
	b := make([]byte, KeySize)
	n := copy(b, Prefix)
	n += copy(b[n:], x.Owner[:])
	binary.BigEndian.PutUint64(b[n:], uint64(x.Asset))
	return b
}

func ownerPrefix(owner common.Identity) []byte {
	b := make([]byte, len(Prefix)+common.IdentitySize)
	copy(b[copy(b, Prefix):], owner[:])
	return b
}

// DecodeKey decodes Key from the storage key. Key must include Prefix.
func DecodeKey(b []byte) (Key, error) {
	var res Key

	if len(b) != KeySize {
		return res, fmt.Errorf("invalid key length %d, expected %d", len(b), KeySize)
	}

	if string(b[:len(Prefix)]) != string(Prefix) {
		return res, fmt.Errorf("invalid key prefix %x", b[:len(Prefix)])
	}

	b = b[len(Prefix):]
	copy(res.Owner[:], b)
	res.Asset = common.AssetID(binary.BigEndian.Uint64(b[common.IdentitySize:]))

	return res, nil
}

// Bytes returns storage value of the listing.
func (x Value) Bytes() []byte {
	b := make([]byte, ValueSize)
	binary.BigEndian.PutUint64(b, x.Deposited)
	binary.BigEndian.PutUint64(b[8:], x.UnitaryPrice)
	return b
}

// DecodeValue decodes Value from the storage value.
func DecodeValue(b []byte) (Value, error) {
	if len(b) != ValueSize {
		return Value{}, fmt.Errorf("invalid value length %d, expected %d", len(b), ValueSize)
	}

	return Value{
		Deposited:    binary.BigEndian.Uint64(b),
		UnitaryPrice: binary.BigEndian.Uint64(b[8:]),
	}, nil
}
