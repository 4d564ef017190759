package custody

import (
	"fmt"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/transfer"
)

// Group is an atomic group of transfers. Transfers are checked against the
// ledger state with all previous transfers of the group applied, so they can
// not fail on commit. The only commit failure is an error of the function
// registered with OnCommit.
//
// Group implements marketplace.Environment. It is valid only inside the
// function passed to Ledger.Submit.
type Group struct {
	l         *Ledger
	custodian common.Identity

	// staged states of the touched accounts
	balances map[common.Identity]uint64
	holdings map[holdingKey]uint64

	onCommit func() error
}

func (x *Group) balance(account common.Identity) uint64 {
	if v, ok := x.balances[account]; ok {
		return v
	}
	return x.l.balances[account]
}

func (x *Group) holding(k holdingKey) (uint64, bool) {
	if v, ok := x.holdings[k]; ok {
		return v, true
	}
	v, ok := x.l.holdings[k]
	return v, ok
}

func (x *Group) pay(from, to common.Identity, amount uint64) error {
	fromBalance, err := common.SubAmount(x.balance(from), amount)
	if err != nil {
		return fmt.Errorf("pay %d from %s: %w", amount, from, ErrInsufficientFunds)
	}

	if from == to {
		return nil
	}

	toBalance, err := common.AddAmount(x.balance(to), amount)
	if err != nil {
		return fmt.Errorf("pay %d to %s: %w", amount, to, err)
	}

	x.balances[from] = fromBalance
	x.balances[to] = toBalance

	return nil
}

func (x *Group) transferAsset(from, to common.Identity, asset common.AssetID, amount uint64) error {
	kFrom, kTo := holdingKey{from, asset}, holdingKey{to, asset}

	fromHolding, ok := x.holding(kFrom)
	if !ok {
		return fmt.Errorf("sender %s, asset %d: %w", from, asset, ErrNotOptedIn)
	}

	toHolding, ok := x.holding(kTo)
	if !ok {
		return fmt.Errorf("receiver %s, asset %d: %w", to, asset, ErrNotOptedIn)
	}

	fromHolding, err := common.SubAmount(fromHolding, amount)
	if err != nil {
		return fmt.Errorf("transfer %d of asset %d from %s: %w", amount, asset, from, ErrInsufficientFunds)
	}

	if from == to {
		return nil
	}

	toHolding, err = common.AddAmount(toHolding, amount)
	if err != nil {
		return fmt.Errorf("transfer %d of asset %d to %s: %w", amount, asset, to, err)
	}

	x.holdings[kFrom] = fromHolding
	x.holdings[kTo] = toHolding

	return nil
}

// Pay adds payment to the group and returns it as companion transfer.
func (x *Group) Pay(from, to common.Identity, amount uint64) (transfer.Payment, error) {
	err := x.pay(from, to, amount)
	if err != nil {
		return transfer.Payment{}, err
	}

	return transfer.Payment{
		Sender:   from,
		Receiver: to,
		Amount:   amount,
	}, nil
}

// TransferAsset adds asset transfer to the group and returns it as companion
// transfer.
func (x *Group) TransferAsset(from, to common.Identity, asset common.AssetID, amount uint64) (transfer.AssetTransfer, error) {
	err := x.transferAsset(from, to, asset, amount)
	if err != nil {
		return transfer.AssetTransfer{}, err
	}

	return transfer.AssetTransfer{
		Sender:   from,
		Receiver: to,
		Asset:    asset,
		Amount:   amount,
	}, nil
}

// Custodian returns identity of the custodian the group was submitted for.
func (x *Group) Custodian() common.Identity {
	return x.custodian
}

// IsOptedIn checks whether the custodian holds the asset.
func (x *Group) IsOptedIn(asset common.AssetID) bool {
	_, ok := x.holding(holdingKey{x.custodian, asset})
	return ok
}

// MinOptInReserve returns opt-in reserve of the Ledger.
func (x *Group) MinOptInReserve() uint64 {
	return x.l.reserve
}

// RequestAssetRegistration opts the custodian in the asset.
func (x *Group) RequestAssetRegistration(asset common.AssetID) error {
	k := holdingKey{x.custodian, asset}
	if _, ok := x.holding(k); ok {
		return fmt.Errorf("asset %d: custodian is already opted in", asset)
	}

	x.holdings[k] = 0

	return nil
}

// RequestAssetTransfer transfers asset units from the custodian.
func (x *Group) RequestAssetTransfer(asset common.AssetID, to common.Identity, amount uint64) error {
	return x.transferAsset(x.custodian, to, asset, amount)
}

// RequestPayment pays from the custodian.
func (x *Group) RequestPayment(to common.Identity, amount uint64) error {
	return x.pay(x.custodian, to, amount)
}

// OnCommit registers f to be called on the group commit before the transfers
// are applied. OnCommit fails with ErrOperationPending if the group already
// has the function.
func (x *Group) OnCommit(f func() error) error {
	if x.onCommit != nil {
		return ErrOperationPending
	}

	x.onCommit = f

	return nil
}

func (x *Group) commit() error {
	if x.onCommit != nil {
		err := x.onCommit()
		if err != nil {
			return err
		}
	}

	for acc, v := range x.balances {
		x.l.balances[acc] = v
	}
	for k, v := range x.holdings {
		x.l.holdings[k] = v
	}

	return nil
}
