package listing

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/rent"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
)

var (
	// ErrDuplicateListing is returned on creation of already existing listing.
	ErrDuplicateListing = errors.New("listing already exists")
	// ErrNotFound is returned when requested listing is missing.
	ErrNotFound = errors.New("listing not found")
	// ErrInsufficientRent is returned when paid rent differs from the required one.
	ErrInsufficientRent = errors.New("paid rent does not match the required one")
)

// Backend is a key-value storage of the listings. It is implemented by
// [storage.MemCachedStore].
type Backend interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte)
	Delete(key []byte)
	Seek(rng storage.SeekRange, f func(k, v []byte) bool)
}

// Mutator modifies listing value. Mutator must not modify the storage. If
// Mutator returns an error, listing is kept unchanged.
type Mutator func(Value) (Value, error)

// Store provides access to the listings kept in the Backend.
//
// Store is not thread-safe, callers serialize access to the same Backend.
type Store struct {
	b    Backend
	rent rent.Calculator
}

// NewStore returns Store working on top of the given Backend. Rent of the
// records is calculated with the provided rent.Calculator.
func NewStore(b Backend, calc rent.Calculator) *Store {
	return &Store{
		b:    b,
		rent: calc,
	}
}

// Rent returns rent of the single listing record.
func (x *Store) Rent() (uint64, error) {
	return x.rent.For(KeySize, ValueSize)
}

func (x *Store) get(key []byte) (Value, error) {
	b, err := x.b.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return Value{}, ErrNotFound
		}
		return Value{}, fmt.Errorf("read storage: %w", err)
	}

	v, err := DecodeValue(b)
	if err != nil {
		return Value{}, fmt.Errorf("decode stored listing: %w", err)
	}

	return v, nil
}

// Create saves new listing. Create fails with ErrDuplicateListing if listing
// with the same key already exists and with ErrInsufficientRent if paidRent is
// not exactly the rent of the listing record.
func (x *Store) Create(key Key, value Value, paidRent uint64) error {
	k := key.Bytes()

	_, err := x.get(k)
	if err == nil {
		return ErrDuplicateListing
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	required, err := x.Rent()
	if err != nil {
		return fmt.Errorf("calculate rent: %w", err)
	}

	if paidRent != required {
		return fmt.Errorf("%w: paid %d, required %d", ErrInsufficientRent, paidRent, required)
	}

	x.b.Put(k, value.Bytes())

	return nil
}

// Get reads listing value by the key. Returns ErrNotFound if listing is missing.
func (x *Store) Get(key Key) (Value, error) {
	return x.get(key.Bytes())
}

// Update applies Mutator to the existing listing. Returns ErrNotFound if
// listing is missing. Mutator errors are returned as is, stored value stays
// untouched in this case.
func (x *Store) Update(key Key, m Mutator) error {
	k := key.Bytes()

	v, err := x.get(k)
	if err != nil {
		return err
	}

	v, err = m(v)
	if err != nil {
		return err
	}

	x.b.Put(k, v.Bytes())

	return nil
}

// Delete removes listing and returns its last value along with the rent to be
// refunded to the owner. Returns ErrNotFound if listing is missing.
func (x *Store) Delete(key Key) (Value, uint64, error) {
	k := key.Bytes()

	v, err := x.get(k)
	if err != nil {
		return Value{}, 0, err
	}

	refund, err := x.Rent()
	if err != nil {
		return Value{}, 0, fmt.Errorf("calculate rent: %w", err)
	}

	x.b.Delete(k)

	return v, refund, nil
}

// Iterate passes listings to f in ascending key order until f returns false.
// If owner is set, only listings of this owner are processed.
func (x *Store) Iterate(owner *common.Identity, f func(Listing) bool) error {
	var rng storage.SeekRange
	if owner != nil {
		rng.Prefix = ownerPrefix(*owner)
	} else {
		rng.Prefix = Prefix
	}

	var err error

	x.b.Seek(rng, func(k, v []byte) bool {
		var l Listing

		l.Key, err = DecodeKey(k)
		if err != nil {
			err = fmt.Errorf("decode key %x: %w", k, err)
			return false
		}

		l.Value, err = DecodeValue(v)
		if err != nil {
			err = fmt.Errorf("decode value of %x: %w", k, err)
			return false
		}

		return f(l)
	})

	return err
}

// DepositMutator returns Mutator increasing deposited quantity by amount.
func DepositMutator(amount uint64) Mutator {
	return func(v Value) (Value, error) {
		sum, err := common.AddAmount(v.Deposited, amount)
		if err != nil {
			return v, fmt.Errorf("increase deposited %d by %d: %w", v.Deposited, amount, err)
		}
		v.Deposited = sum
		return v, nil
	}
}

// PurchaseMutator returns Mutator decreasing deposited quantity by the
// purchased one. Purchase of more than deposited fails with
// common.ErrUnderflow.
func PurchaseMutator(quantity uint64) Mutator {
	return func(v Value) (Value, error) {
		rest, err := common.SubAmount(v.Deposited, quantity)
		if err != nil {
			return v, fmt.Errorf("purchase %d of %d deposited: %w", quantity, v.Deposited, err)
		}
		v.Deposited = rest
		return v, nil
	}
}

// PriceMutator returns Mutator setting unitary price.
func PriceMutator(price uint64) Mutator {
	return func(v Value) (Value, error) {
		v.UnitaryPrice = price
		return v, nil
	}
}
