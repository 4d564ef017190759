package custody

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

const asset = common.AssetID(7)

func TestGroup_Commit(t *testing.T) {
	l := New(DefaultMinOptInReserve)
	require.NoError(t, l.Fund(alice, 1_000))
	require.NoError(t, l.Mint(alice, asset, 10))
	l.OptIn(custodian, asset)

	err := l.Submit(custodian, func(g *Group) error {
		p, err := g.Pay(alice, bob, 300)
		require.NoError(t, err)
		require.Equal(t, alice, p.Sender)
		require.Equal(t, bob, p.Receiver)
		require.EqualValues(t, 300, p.Amount)

		x, err := g.TransferAsset(alice, custodian, asset, 4)
		require.NoError(t, err)
		require.Equal(t, asset, x.Asset)

		// staged transfers are visible within the group
		_, err = g.Pay(alice, bob, 701)
		require.ErrorIs(t, err, ErrInsufficientFunds)

		return nil
	})
	require.NoError(t, err)

	require.EqualValues(t, 700, l.Balance(alice))
	require.EqualValues(t, 300, l.Balance(bob))

	v, ok := l.Holding(alice, asset)
	require.True(t, ok)
	require.EqualValues(t, 6, v)

	v, ok = l.Holding(custodian, asset)
	require.True(t, ok)
	require.EqualValues(t, 4, v)
}

func TestGroup_Discard(t *testing.T) {
	l := New(DefaultMinOptInReserve)
	require.NoError(t, l.Fund(alice, 1_000))

	errAbort := errors.New("abort")

	err := l.Submit(custodian, func(g *Group) error {
		_, err := g.Pay(alice, bob, 1_000)
		require.NoError(t, err)
		require.NoError(t, g.RequestAssetRegistration(asset))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	require.EqualValues(t, 1_000, l.Balance(alice))
	require.Zero(t, l.Balance(bob))

	_, ok := l.Holding(custodian, asset)
	require.False(t, ok)
}

func TestGroup_Environment(t *testing.T) {
	l := New(DefaultMinOptInReserve)
	require.NoError(t, l.Fund(custodian, 500))
	require.NoError(t, l.Mint(custodian, asset, 5))

	err := l.Submit(custodian, func(g *Group) error {
		require.Equal(t, custodian, g.Custodian())
		require.EqualValues(t, DefaultMinOptInReserve, g.MinOptInReserve())
		require.True(t, g.IsOptedIn(asset))
		require.False(t, g.IsOptedIn(asset+1))

		require.NoError(t, g.RequestAssetRegistration(asset+1))
		require.True(t, g.IsOptedIn(asset+1))
		require.Error(t, g.RequestAssetRegistration(asset+1))

		err := g.RequestAssetTransfer(asset, bob, 1)
		require.ErrorIs(t, err, ErrNotOptedIn)

		require.NoError(t, g.RequestPayment(bob, 500))
		require.ErrorIs(t, g.RequestPayment(bob, 1), ErrInsufficientFunds)

		return nil
	})
	require.NoError(t, err)

	require.EqualValues(t, 500, l.Balance(bob))

	_, ok := l.Holding(custodian, asset+1)
	require.True(t, ok)

	l.OptIn(bob, asset)

	err = l.Submit(custodian, func(g *Group) error {
		require.ErrorIs(t, g.RequestAssetTransfer(asset, bob, 6), ErrInsufficientFunds)
		return g.RequestAssetTransfer(asset, bob, 5)
	})
	require.NoError(t, err)

	v, _ := l.Holding(bob, asset)
	require.EqualValues(t, 5, v)
}

func TestGroup_OnCommit(t *testing.T) {
	l := New(DefaultMinOptInReserve)
	require.NoError(t, l.Fund(alice, 1_000))

	var called int

	err := l.Submit(custodian, func(g *Group) error {
		_, err := g.Pay(alice, bob, 100)
		require.NoError(t, err)

		require.NoError(t, g.OnCommit(func() error {
			called++
			return nil
		}))
		require.ErrorIs(t, g.OnCommit(func() error { return nil }), ErrOperationPending)

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, called)
	require.EqualValues(t, 100, l.Balance(bob))

	t.Run("failed", func(t *testing.T) {
		errCommit := errors.New("commit")

		err := l.Submit(custodian, func(g *Group) error {
			_, err := g.Pay(alice, bob, 100)
			require.NoError(t, err)
			return g.OnCommit(func() error { return errCommit })
		})
		require.ErrorIs(t, err, errCommit)

		require.EqualValues(t, 900, l.Balance(alice))
		require.EqualValues(t, 100, l.Balance(bob))
	})

	t.Run("discarded", func(t *testing.T) {
		errAbort := errors.New("abort")

		err := l.Submit(custodian, func(g *Group) error {
			require.NoError(t, g.OnCommit(func() error {
				called++
				return nil
			}))
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)
		require.Equal(t, 1, called)
	})
}
