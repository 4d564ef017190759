package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmountArithmetic(t *testing.T) {
	res, err := AddAmount(math.MaxUint64-1, 1)
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), res)

	_, err = AddAmount(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrOverflow)

	res, err = SubAmount(3, 3)
	require.NoError(t, err)
	require.Zero(t, res)

	_, err = SubAmount(1, 5)
	require.ErrorIs(t, err, ErrUnderflow)

	res, err = MulAmount(1_000_000, 2)
	require.NoError(t, err)
	require.EqualValues(t, 2_000_000, res)

	res, err = MulAmount(math.MaxUint64, 0)
	require.NoError(t, err)
	require.Zero(t, res)

	_, err = MulAmount(math.MaxUint64/2+1, 2)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestCheckVersion(t *testing.T) {
	require.NoError(t, CheckVersion(Version))
	require.NoError(t, CheckVersion(PrevVersion))
	require.ErrorIs(t, CheckVersion(PrevVersion-1), ErrVersionMismatch)
	require.ErrorIs(t, CheckVersion(Version+1), ErrVersionMismatch)
}
