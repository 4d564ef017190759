package marketplace

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/listing"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"go.uber.org/zap"
)

// RentQuote returns the rent FirstDeposit requires and Withdraw refunds.
func (x *Marketplace) RentQuote() (uint64, error) {
	return listing.NewStore(nil, x.rent).Rent()
}

// Listing returns state of the owner's listing of the asset. Returns
// listing.ErrNotFound if there is no such listing.
func (x *Marketplace) Listing(owner common.Identity, asset common.AssetID) (listing.Value, error) {
	var res listing.Value

	err := x.view(func(_ listing.Backend, s *listing.Store) error {
		var err error
		res, err = s.Get(listing.Key{Owner: owner, Asset: asset})
		return err
	})

	return res, err
}

// Listings returns all listings of the owner. If owner is nil, all listings
// are returned.
func (x *Marketplace) Listings(owner *common.Identity) ([]listing.Listing, error) {
	var res []listing.Listing

	err := x.view(func(_ listing.Backend, s *listing.Store) error {
		return s.Iterate(owner, func(l listing.Listing) bool {
			res = append(res, l)
			return true
		})
	})

	return res, err
}

// Revision returns number of the storage changes committed so far.
func (x *Marketplace) Revision() (uint64, error) {
	var res uint64

	err := x.view(func(b listing.Backend, _ *listing.Store) error {
		var err error
		res, err = readRevision(b)
		return err
	})

	return res, err
}

// Snapshot returns consistent state of all listings along with the revision
// it corresponds to.
func (x *Marketplace) Snapshot() (uint64, []listing.Listing, error) {
	var (
		rev uint64
		res []listing.Listing
	)

	err := x.view(func(b listing.Backend, s *listing.Store) error {
		var err error

		rev, err = readRevision(b)
		if err != nil {
			return err
		}

		return s.Iterate(nil, func(l listing.Listing) bool {
			res = append(res, l)
			return true
		})
	})

	return rev, res, err
}

// ErrNotEmpty is returned by Restore if the storage already has listings.
var ErrNotEmpty = errors.New("storage is not empty")

// Restore fills empty storage with listings from the Snapshot taken at the
// given revision. The rent of restored listings is assumed to be already
// locked.
func (x *Marketplace) Restore(rev uint64, listings []listing.Listing) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	cache := storage.NewMemCachedStore(x.st)
	s := listing.NewStore(cache, x.rent)

	empty := true

	err := s.Iterate(nil, func(listing.Listing) bool {
		empty = false
		return false
	})
	if err != nil {
		return fmt.Errorf("check storage emptiness: %w", err)
	}

	if !empty {
		return ErrNotEmpty
	}

	quote, err := s.Rent()
	if err != nil {
		return fmt.Errorf("calculate rent: %w", err)
	}

	for i := range listings {
		err = s.Create(listings[i].Key, listings[i].Value, quote)
		if err != nil {
			return fmt.Errorf("restore listing #%d (owner %s, asset %d): %w",
				i, listings[i].Owner, listings[i].Asset, err)
		}
	}

	writeRevision(cache, rev)

	_, err = cache.PersistSync()
	if err != nil {
		return fmt.Errorf("persist restored listings: %w", err)
	}

	x.gen++

	x.log.Info("listings restored", zap.Int("count", len(listings)), zap.Uint64("revision", rev))

	return nil
}
