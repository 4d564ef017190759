package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/listing"
	"github.com/nspcc-dev/escrow-market/rent"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	id := ID{Label: "testnet", Revision: 42}
	require.Equal(t, "testnet-42", id.String())

	var decoded ID
	require.NoError(t, decoded.DecodeString("testnet-42-state.json"))
	require.Equal(t, id, decoded)

	require.Error(t, decoded.DecodeString("testnet"))
	require.Error(t, decoded.DecodeString("testnet-x-state.json"))
}

func testListings() []listing.Listing {
	return []listing.Listing{
		{
			Key:   listing.Key{Owner: common.Identity{1, 2, 3}, Asset: 1},
			Value: listing.Value{Deposited: 3, UnitaryPrice: 1_000_000},
		},
		{
			Key:   listing.Key{Owner: common.Identity{4, 5, 6}, Asset: 18_446_744_073_709_551_615},
			Value: listing.Value{Deposited: 0, UnitaryPrice: 0},
		},
	}
}

func create(t *testing.T, dir string, id ID, ls []listing.Listing) {
	c, err := NewCreator(dir, id, State{Version: common.Version, Rent: rent.Default()})
	require.NoError(t, err)

	for i := range ls {
		require.NoError(t, c.AddListing(ls[i]))
	}

	require.NoError(t, c.Flush())
	c.Close()
}

func TestCreatorReader(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "local", Revision: 7}
	ls := testListings()

	create(t, dir, id, ls)

	r, err := Open(dir, id)
	require.NoError(t, err)
	require.Equal(t, State{Version: common.Version, Rent: rent.Default(), Listings: len(ls)}, r.State())
	require.Equal(t, ls, r.Listings())

	t.Run("already exists", func(t *testing.T) {
		_, err := NewCreator(dir, id, State{})
		require.ErrorIs(t, err, os.ErrExist)
	})

	t.Run("invalid label", func(t *testing.T) {
		_, err := NewCreator(dir, ID{Label: "a-b"}, State{})
		require.Error(t, err)

		_, err = NewCreator(dir, ID{}, State{})
		require.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Open(dir, ID{Label: "local", Revision: 8})
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("corrupted", func(t *testing.T) {
		id := ID{Label: "corrupted", Revision: 1}
		create(t, dir, id, ls)

		p := filepath.Join(dir, id.String()+"-"+listingsFileSuffix)
		require.NoError(t, os.WriteFile(p, []byte("owner,1,2,3\n"), 0600))

		_, err := Open(dir, id)
		require.Error(t, err)
	})
}

func TestIterateDumps(t *testing.T) {
	dir := t.TempDir()

	ids := []ID{{"node1", 1}, {"node2", 10}}
	for i := range ids {
		create(t, dir, ids[i], testListings()[:i+1])
	}

	var collected []ID

	require.NoError(t, IterateDumps(dir, func(id ID, r *Reader) {
		collected = append(collected, id)
		require.Len(t, r.Listings(), r.State().Listings)
	}))
	require.ElementsMatch(t, ids, collected)

	require.NoError(t, IterateDumps(filepath.Join(dir, "missing"), func(ID, *Reader) {
		t.Fatal("must not be called")
	}))
}
