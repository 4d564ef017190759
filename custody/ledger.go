/*
Package custody provides in-memory ledger of accounts used as execution
environment of the marketplace operations in tests and local simulations.

Ledger keeps balances of the ledger currency, asset holdings and opt-in
registrations of the accounts. All changes are made within atomic groups: the
Group accumulates companion transfers of the caller and outbound transfers
requested by the marketplace, and applies them all at once on commit along
with the listing storage changes registered through Group.OnCommit.
*/
package custody

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nspcc-dev/escrow-market/common"
)

// DefaultMinOptInReserve is a default amount of currency to be reserved for
// each opted in asset.
const DefaultMinOptInReserve = 100_000

var (
	// ErrInsufficientFunds is returned when sender has not enough currency or
	// asset units.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotOptedIn is returned on asset transfer to or from the account not
	// opted in the asset.
	ErrNotOptedIn = errors.New("account is not opted in the asset")
	// ErrOperationPending is returned on registration of the second commit
	// function within the same group.
	ErrOperationPending = errors.New("group already carries pending operation")
)

type holdingKey struct {
	account common.Identity
	asset   common.AssetID
}

// Ledger is an in-memory ledger of accounts. Ledger is safe for concurrent
// use, groups are executed one by one.
type Ledger struct {
	reserve uint64

	mtx      sync.Mutex
	balances map[common.Identity]uint64
	// presence means opt-in
	holdings map[holdingKey]uint64
}

// New returns empty Ledger requiring the given opt-in reserve.
func New(minOptInReserve uint64) *Ledger {
	return &Ledger{
		reserve:  minOptInReserve,
		balances: make(map[common.Identity]uint64),
		holdings: make(map[holdingKey]uint64),
	}
}

// Fund adds currency to the account balance.
func (x *Ledger) Fund(account common.Identity, amount uint64) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	res, err := common.AddAmount(x.balances[account], amount)
	if err != nil {
		return fmt.Errorf("fund %s: %w", account, err)
	}

	x.balances[account] = res

	return nil
}

// Mint opts the account in the asset and adds asset units to it.
func (x *Ledger) Mint(account common.Identity, asset common.AssetID, amount uint64) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	k := holdingKey{account, asset}

	res, err := common.AddAmount(x.holdings[k], amount)
	if err != nil {
		return fmt.Errorf("mint asset %d to %s: %w", asset, account, err)
	}

	x.holdings[k] = res

	return nil
}

// OptIn registers the account to hold the asset.
func (x *Ledger) OptIn(account common.Identity, asset common.AssetID) {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	k := holdingKey{account, asset}
	if _, ok := x.holdings[k]; !ok {
		x.holdings[k] = 0
	}
}

// Balance returns currency balance of the account.
func (x *Ledger) Balance(account common.Identity) uint64 {
	x.mtx.Lock()
	defer x.mtx.Unlock()
	return x.balances[account]
}

// Holding returns amount of the asset held by the account. The flag is false
// if the account is not opted in the asset.
func (x *Ledger) Holding(account common.Identity, asset common.AssetID) (uint64, bool) {
	x.mtx.Lock()
	defer x.mtx.Unlock()
	v, ok := x.holdings[holdingKey{account, asset}]
	return v, ok
}

// Submit executes f within the new atomic group in which the custodian holds
// the marketplace assets. The group is committed if f returns nil and
// discarded otherwise. The error of f is returned as is. If the commit function
// registered in the group fails, the group is discarded and the error is
// returned.
func (x *Ledger) Submit(custodian common.Identity, f func(*Group) error) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	g := &Group{
		l:         x,
		custodian: custodian,
		balances:  make(map[common.Identity]uint64),
		holdings:  make(map[holdingKey]uint64),
	}

	err := f(g)
	if err != nil {
		return err
	}

	return g.commit()
}
