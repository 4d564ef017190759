package marketplace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/listing"
	"github.com/nspcc-dev/escrow-market/rent"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"go.uber.org/zap"
)

var (
	versionKey  = []byte("version")
	revisionKey = []byte("revision")
)

// ErrConcurrentUpdate is returned on commit of the operation if the listing
// storage has been changed after the operation was executed.
var ErrConcurrentUpdate = errors.New("listing storage changed by concurrent operation")

// Prm groups parameters of the Marketplace.
type Prm struct {
	// Writes results of the operations into the log. Optional, no-op logger is
	// used by default.
	Logger *zap.Logger

	// Rent of the listing records. Zero Calculator is replaced with
	// rent.Default.
	Rent rent.Calculator
}

// Marketplace serves marketplace operations on top of the persistent storage.
//
// Marketplace is safe for concurrent use, operations are applied one by one.
type Marketplace struct {
	log  *zap.Logger
	rent rent.Calculator

	mtx sync.Mutex
	st  storage.Store
	// number of the storage changes persisted by this instance
	gen uint64
}

// New opens Marketplace working with the given storage. Empty storage is
// initialized with the current layout version (common.Version). Storage of the
// incompatible version is rejected with common.ErrVersionMismatch.
func New(st storage.Store, prm Prm) (*Marketplace, error) {
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	if prm.Rent == (rent.Calculator{}) {
		prm.Rent = rent.Default()
	}

	b, err := st.Get(versionKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		cache := storage.NewMemCachedStore(st)
		vb := make([]byte, 4)
		binary.BigEndian.PutUint32(vb, common.Version)
		cache.Put(versionKey, vb)

		_, err = cache.PersistSync()
		if err != nil {
			return nil, fmt.Errorf("persist storage version: %w", err)
		}

		prm.Logger.Info("storage initialized", zap.Int("version", common.Version))
	case err != nil:
		return nil, fmt.Errorf("read storage version: %w", err)
	default:
		if len(b) != 4 {
			return nil, fmt.Errorf("invalid storage version length %d", len(b))
		}

		err = common.CheckVersion(int(binary.BigEndian.Uint32(b)))
		if err != nil {
			return nil, err
		}
	}

	return &Marketplace{
		log:  prm.Logger,
		rent: prm.Rent,
		st:   st,
	}, nil
}

type getter interface {
	Get(key []byte) ([]byte, error)
}

func readRevision(b getter) (uint64, error) {
	v, err := b.Get(revisionKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read revision: %w", err)
	}

	if len(v) != 8 {
		return 0, fmt.Errorf("invalid revision length %d", len(v))
	}

	return binary.BigEndian.Uint64(v), nil
}

func writeRevision(b listing.Backend, rev uint64) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, rev)
	b.Put(revisionKey, v)
}

// apply executes f within the storage unit of work. If f succeeds, its changes
// are registered to be persisted on commit of the call's group, done is called
// after that. Every persisted unit increments the storage revision. Must be
// called under the lock.
func (x *Marketplace) apply(c Call, op string, f func(*listing.Store) error, done func()) error {
	cache := storage.NewMemCachedStore(x.st)

	err := f(listing.NewStore(cache, x.rent))
	if err == nil {
		err = x.stage(c, op, cache, done)
	}
	if err != nil {
		x.log.Debug("operation rejected",
			zap.String("op", op),
			zap.Stringer("call", c.ID),
			zap.Stringer("caller", c.Caller),
			zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (x *Marketplace) stage(c Call, op string, cache *storage.MemCachedStore, done func()) error {
	rev, err := readRevision(cache)
	if err != nil {
		return err
	}

	writeRevision(cache, rev+1)

	gen := x.gen

	err = c.Env.OnCommit(func() error {
		x.mtx.Lock()
		defer x.mtx.Unlock()

		if x.gen != gen {
			return fmt.Errorf("%s: %w", op, ErrConcurrentUpdate)
		}

		_, err := cache.PersistSync()
		if err != nil {
			return fmt.Errorf("%s: persist changes: %w", op, err)
		}

		x.gen++

		done()

		return nil
	})
	if err != nil {
		return fmt.Errorf("register commit: %w", err)
	}

	return nil
}

// view executes f with read-only access to the listings.
func (x *Marketplace) view(f func(listing.Backend, *listing.Store) error) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	// cache is never persisted
	cache := storage.NewMemCachedStore(x.st)

	return f(cache, listing.NewStore(cache, x.rent))
}
