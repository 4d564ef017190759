package common

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	var id Identity
	require.True(t, id.IsZero())

	for i := range id {
		id[i] = byte(i)
	}
	require.False(t, id.IsZero())

	decoded, err := DecodeIdentity(id.String())
	require.NoError(t, err)
	require.Equal(t, id, decoded)

	_, err = DecodeIdentity("not base58: 0OIl")
	require.Error(t, err)

	_, err = DecodeIdentity(base58.Encode(id[:IdentitySize-1]))
	require.Error(t, err)
}
