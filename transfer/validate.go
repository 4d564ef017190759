package transfer

import (
	"github.com/nspcc-dev/escrow-market/common"
)

// AmountPredicate checks transferred amount.
type AmountPredicate func(uint64) error

// Positive returns AmountPredicate accepting non-zero amounts only.
func Positive() AmountPredicate {
	return func(a uint64) error {
		if a == 0 {
			return &MismatchError{Reason: NonPositiveAmount, Actual: decimal(a).String()}
		}
		return nil
	}
}

// Exactly returns AmountPredicate accepting the given amount only.
func Exactly(expected uint64) AmountPredicate {
	return func(a uint64) error {
		if a != expected {
			return mismatch(WrongAmount, decimal(expected), decimal(a))
		}
		return nil
	}
}

func checkRoute(sender, receiver, expectedSender, expectedReceiver common.Identity) error {
	if sender != expectedSender {
		return mismatch(WrongSender, expectedSender, sender)
	}
	if receiver != expectedReceiver {
		return mismatch(WrongReceiver, expectedReceiver, receiver)
	}
	return nil
}

// ExpectPaymentRoute checks that the payment is sent from sender to receiver.
// The amount is not checked.
func ExpectPaymentRoute(p Payment, sender, receiver common.Identity) error {
	return checkRoute(p.Sender, p.Receiver, sender, receiver)
}

// ExpectPayment checks that exact amount is paid from sender to receiver.
func ExpectPayment(p Payment, sender, receiver common.Identity, amount uint64) error {
	err := ExpectPaymentRoute(p, sender, receiver)
	if err != nil {
		return err
	}
	return Exactly(amount)(p.Amount)
}

// ExpectAssetTransfer checks that the asset is transferred from sender to
// receiver and the amount satisfies the predicate.
func ExpectAssetTransfer(x AssetTransfer, sender, receiver common.Identity, asset common.AssetID, pred AmountPredicate) error {
	err := checkRoute(x.Sender, x.Receiver, sender, receiver)
	if err != nil {
		return err
	}

	if x.Asset != asset {
		return mismatch(WrongAsset, decimal(asset), decimal(x.Asset))
	}

	return pred(x.Amount)
}
