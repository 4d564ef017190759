package transfer

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/stretchr/testify/require"
)

var (
	alice     = common.Identity{1}
	bob       = common.Identity{2}
	custodian = common.Identity{3}
)

func requireMismatch(t *testing.T, err error, r Reason) {
	require.ErrorIs(t, err, ErrMismatch)

	var e *MismatchError
	require.True(t, errors.As(err, &e))
	require.Equal(t, r, e.Reason)
}

func TestExpectPayment(t *testing.T) {
	p := Payment{Sender: alice, Receiver: custodian, Amount: 28_100}

	require.NoError(t, ExpectPayment(p, alice, custodian, 28_100))
	require.NoError(t, ExpectPaymentRoute(p, alice, custodian))

	requireMismatch(t, ExpectPayment(p, bob, custodian, 28_100), WrongSender)
	requireMismatch(t, ExpectPayment(p, alice, bob, 28_100), WrongReceiver)
	requireMismatch(t, ExpectPayment(p, alice, custodian, 28_099), WrongAmount)
	requireMismatch(t, ExpectPaymentRoute(p, alice, alice), WrongReceiver)
}

func TestExpectAssetTransfer(t *testing.T) {
	x := AssetTransfer{Sender: alice, Receiver: custodian, Asset: 10, Amount: 3}

	require.NoError(t, ExpectAssetTransfer(x, alice, custodian, 10, Positive()))
	require.NoError(t, ExpectAssetTransfer(x, alice, custodian, 10, Exactly(3)))

	requireMismatch(t, ExpectAssetTransfer(x, bob, custodian, 10, Positive()), WrongSender)
	requireMismatch(t, ExpectAssetTransfer(x, alice, bob, 10, Positive()), WrongReceiver)
	requireMismatch(t, ExpectAssetTransfer(x, alice, custodian, 11, Positive()), WrongAsset)
	requireMismatch(t, ExpectAssetTransfer(x, alice, custodian, 10, Exactly(4)), WrongAmount)

	x.Amount = 0
	requireMismatch(t, ExpectAssetTransfer(x, alice, custodian, 10, Positive()), NonPositiveAmount)
}

func TestMismatchError(t *testing.T) {
	err := ExpectPayment(Payment{Amount: 1}, common.Identity{}, common.Identity{}, 2)
	require.EqualError(t, err, "companion transfer mismatch: wrong amount (expected 2, got 1)")

	err = Positive()(0)
	require.EqualError(t, err, "companion transfer mismatch: non-positive amount (0)")

	require.Equal(t, "UNKNOWN#42", Reason(42).String())
}
