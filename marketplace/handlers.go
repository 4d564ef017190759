package marketplace

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/listing"
	"github.com/nspcc-dev/escrow-market/transfer"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyRegistered is returned by EnableAsset for the asset the
	// custodian is already opted in.
	ErrAlreadyRegistered = errors.New("custodian is already opted in the asset")
	// ErrAssetNotRegistered is returned on deposit of the asset the custodian
	// is not opted in.
	ErrAssetNotRegistered = errors.New("custodian is not opted in the asset")
)

// Withdrawal describes assets and currency returned to the listing owner by
// Withdraw.
type Withdrawal struct {
	Asset common.AssetID
	// Remaining deposited asset units.
	Quantity uint64
	// Refunded listing rent.
	Rent uint64
}

// EnableAsset registers the custodian for the asset. The caller must pay
// exactly Environment.MinOptInReserve to the custodian. EnableAsset fails with
// ErrAlreadyRegistered if the custodian is already registered.
func (x *Marketplace) EnableAsset(c Call, pay transfer.Payment, asset common.AssetID) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	err := enableAsset(c, pay, asset)
	if err != nil {
		x.log.Debug("operation rejected",
			zap.String("op", "enable asset"),
			zap.Stringer("call", c.ID),
			zap.Stringer("caller", c.Caller),
			zap.Error(err))
		return fmt.Errorf("enable asset: %w", err)
	}

	x.log.Info("asset registration requested",
		zap.Stringer("call", c.ID),
		zap.Stringer("caller", c.Caller),
		zap.Uint64("asset", uint64(asset)))

	return nil
}

func enableAsset(c Call, pay transfer.Payment, asset common.AssetID) error {
	if c.Env.IsOptedIn(asset) {
		return ErrAlreadyRegistered
	}

	err := transfer.ExpectPayment(pay, c.Caller, c.Env.Custodian(), c.Env.MinOptInReserve())
	if err != nil {
		return fmt.Errorf("opt-in reserve payment: %w", err)
	}

	err = c.Env.RequestAssetRegistration(asset)
	if err != nil {
		return fmt.Errorf("request asset registration: %w", err)
	}

	return nil
}

// FirstDeposit opens new listing of the caller for the transferred asset. The
// caller must pay listing rent (see RentQuote) to the custodian and transfer
// positive amount of the asset to the custodian. FirstDeposit fails with
// listing.ErrDuplicateListing if the caller already has listing for the asset.
func (x *Marketplace) FirstDeposit(c Call, rentPay transfer.Payment, xfer transfer.AssetTransfer, price uint64) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	key := listing.Key{Owner: c.Caller, Asset: xfer.Asset}
	val := listing.Value{Deposited: xfer.Amount, UnitaryPrice: price}

	return x.apply(c, "first deposit", func(s *listing.Store) error {
		custodian := c.Env.Custodian()

		if !c.Env.IsOptedIn(xfer.Asset) {
			return ErrAssetNotRegistered
		}

		err := transfer.ExpectPaymentRoute(rentPay, c.Caller, custodian)
		if err != nil {
			return fmt.Errorf("rent payment: %w", err)
		}

		err = transfer.ExpectAssetTransfer(xfer, c.Caller, custodian, xfer.Asset, transfer.Positive())
		if err != nil {
			return fmt.Errorf("asset transfer: %w", err)
		}

		return s.Create(key, val, rentPay.Amount)
	}, func() {
		x.log.Info("listing opened",
			zap.Stringer("call", c.ID),
			zap.Stringer("owner", c.Caller),
			zap.Uint64("asset", uint64(xfer.Asset)),
			zap.Uint64("deposited", val.Deposited),
			zap.Uint64("price", val.UnitaryPrice),
			zap.Uint64("rent", rentPay.Amount))
	})
}

// Deposit tops up the caller's listing of the transferred asset. The caller
// must transfer positive amount of the asset to the custodian. Deposit fails
// with listing.ErrNotFound if there is no such listing.
func (x *Marketplace) Deposit(c Call, xfer transfer.AssetTransfer) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	key := listing.Key{Owner: c.Caller, Asset: xfer.Asset}

	return x.apply(c, "deposit", func(s *listing.Store) error {
		err := transfer.ExpectAssetTransfer(xfer, c.Caller, c.Env.Custodian(), xfer.Asset, transfer.Positive())
		if err != nil {
			return fmt.Errorf("asset transfer: %w", err)
		}

		return s.Update(key, listing.DepositMutator(xfer.Amount))
	}, func() {
		x.log.Info("listing topped up",
			zap.Stringer("call", c.ID),
			zap.Stringer("owner", c.Caller),
			zap.Uint64("asset", uint64(xfer.Asset)),
			zap.Uint64("amount", xfer.Amount))
	})
}

// SetPrice sets unit price of the caller's listing. Any price is accepted.
// SetPrice fails with listing.ErrNotFound if there is no such listing.
func (x *Marketplace) SetPrice(c Call, asset common.AssetID, price uint64) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	key := listing.Key{Owner: c.Caller, Asset: asset}

	return x.apply(c, "set price", func(s *listing.Store) error {
		return s.Update(key, listing.PriceMutator(price))
	}, func() {
		x.log.Info("listing price changed",
			zap.Stringer("call", c.ID),
			zap.Stringer("owner", c.Caller),
			zap.Uint64("asset", uint64(asset)),
			zap.Uint64("price", price))
	})
}

// Buy purchases quantity of the asset units from the owner's listing. The
// caller must pay exactly unitary_price*quantity directly to the owner. The
// custodian transfers purchased units to the caller. Purchase of zero units
// is a valid no-op sale paid with zero amount.
//
// Buy fails with common.ErrUnderflow if quantity exceeds deposited amount and
// with common.ErrOverflow if the total price does not fit into 64 bits.
func (x *Marketplace) Buy(c Call, asset common.AssetID, pay transfer.Payment, quantity uint64, owner common.Identity) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	key := listing.Key{Owner: owner, Asset: asset}

	var total uint64

	return x.apply(c, "buy", func(s *listing.Store) error {
		v, err := s.Get(key)
		if err != nil {
			return err
		}

		// receiver == owner is the only authorization of the purchase
		err = transfer.ExpectPaymentRoute(pay, c.Caller, owner)
		if err != nil {
			return fmt.Errorf("purchase payment: %w", err)
		}

		total, err = common.MulAmount(v.UnitaryPrice, quantity)
		if err != nil {
			return fmt.Errorf("total price of %d units at %d: %w", quantity, v.UnitaryPrice, err)
		}

		err = transfer.Exactly(total)(pay.Amount)
		if err != nil {
			return fmt.Errorf("purchase payment: %w", err)
		}

		err = s.Update(key, listing.PurchaseMutator(quantity))
		if err != nil {
			return err
		}

		err = c.Env.RequestAssetTransfer(asset, c.Caller, quantity)
		if err != nil {
			return fmt.Errorf("request asset transfer: %w", err)
		}

		return nil
	}, func() {
		x.log.Info("asset purchased",
			zap.Stringer("call", c.ID),
			zap.Stringer("buyer", c.Caller),
			zap.Stringer("owner", owner),
			zap.Uint64("asset", uint64(asset)),
			zap.Uint64("quantity", quantity),
			zap.Uint64("paid", total))
	})
}

// Withdraw closes the caller's listing of the asset. The custodian returns
// remaining deposited units and refunds listing rent to the caller. Withdraw
// fails with listing.ErrNotFound if there is no such listing. The returned
// Withdrawal takes effect with the commit of the call's group.
func (x *Marketplace) Withdraw(c Call, asset common.AssetID) (Withdrawal, error) {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	key := listing.Key{Owner: c.Caller, Asset: asset}
	res := Withdrawal{Asset: asset}

	err := x.apply(c, "withdraw", func(s *listing.Store) error {
		v, refund, err := s.Delete(key)
		if err != nil {
			return err
		}

		if v.Deposited > 0 {
			err = c.Env.RequestAssetTransfer(asset, c.Caller, v.Deposited)
			if err != nil {
				return fmt.Errorf("request asset transfer: %w", err)
			}
		}

		err = c.Env.RequestPayment(c.Caller, refund)
		if err != nil {
			return fmt.Errorf("request rent refund: %w", err)
		}

		res.Quantity = v.Deposited
		res.Rent = refund

		return nil
	}, func() {
		x.log.Info("listing closed",
			zap.Stringer("call", c.ID),
			zap.Stringer("owner", c.Caller),
			zap.Uint64("asset", uint64(asset)),
			zap.Uint64("quantity", res.Quantity),
			zap.Uint64("rent", res.Rent))
	})
	if err != nil {
		return Withdrawal{}, err
	}

	return res, nil
}
