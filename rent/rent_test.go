package rent

import (
	"math"
	"testing"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/stretchr/testify/require"
)

func TestCalculator_For(t *testing.T) {
	t.Run("listing layout", func(t *testing.T) {
		const prefixLen = 8

		res, err := Default().For(prefixLen+common.IdentitySize+8, 8+8)
		require.NoError(t, err)
		require.EqualValues(t, 28_100, res)
	})

	t.Run("empty record", func(t *testing.T) {
		res, err := Default().For(0, 0)
		require.NoError(t, err)
		require.EqualValues(t, DefaultBaseFee, res)
	})

	t.Run("deterministic", func(t *testing.T) {
		c := Calculator{BaseFee: 7, PerByteFee: 3}

		onCreate, err := c.For(48, 16)
		require.NoError(t, err)
		onDelete, err := c.For(48, 16)
		require.NoError(t, err)
		require.Equal(t, onCreate, onDelete)
		require.EqualValues(t, 7+64*3, onCreate)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := Default().For(-1, 16)
		require.Error(t, err)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := Calculator{PerByteFee: math.MaxUint64}.For(2, 0)
		require.ErrorIs(t, err, common.ErrOverflow)

		_, err = Calculator{BaseFee: math.MaxUint64, PerByteFee: 1}.For(1, 0)
		require.ErrorIs(t, err, common.ErrOverflow)
	})
}
