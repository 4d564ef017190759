package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/escrow-market/common"
	"github.com/nspcc-dev/escrow-market/listing"
)

// IterateDumps iterates over all dumps collected by the Creator model in the
// specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	var id ID

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		} else if e != nil {
			return e
		}

		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, stateFileSuffix) {
			return nil
		}

		err := id.DecodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", name, err)
		}

		r, err := Open(dir, id)
		if err != nil {
			return fmt.Errorf("open dump '%s': %w", id, err)
		}

		f(id, r)

		return nil
	})
}

// Open reads dump with the given ID from the specified directory.
func Open(dir string, id ID) (*Reader, error) {
	var streams dumpStreams

	err := initDumpStreams(&streams, dir, id, true)
	if err != nil {
		return nil, err
	}

	defer streams.close()

	var r Reader

	err = r.fromDumpStreams(streams.state, streams.listings)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// Reader reads listings collected in the superior dump.
type Reader struct {
	state    State
	listings []listing.Listing
}

func (x *Reader) fromDumpStreams(rState, rListings io.Reader) error {
	err := json.NewDecoder(rState).Decode(&x.state)
	if err != nil {
		return fmt.Errorf("decode storage state from JSON: %w", err)
	}

	_csv := csv.NewReader(rListings)
	_csv.FieldsPerRecord = 4
	_csv.ReuseRecord = true

	x.listings = make([]listing.Listing, 0, x.state.Listings)

	for {
		rec, err := _csv.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		l, err := decodeListing(rec)
		if err != nil {
			return fmt.Errorf("decode listing #%d: %w", len(x.listings), err)
		}

		x.listings = append(x.listings, l)
	}

	if len(x.listings) != x.state.Listings {
		return fmt.Errorf("number of listings %d differs from the declared %d", len(x.listings), x.state.Listings)
	}

	return nil
}

func decodeListing(rec []string) (listing.Listing, error) {
	var (
		res listing.Listing
		err error
	)

	res.Owner, err = common.DecodeIdentity(rec[0])
	if err != nil {
		return res, fmt.Errorf("owner: %w", err)
	}

	asset, err := strconv.ParseUint(rec[1], 10, 64)
	if err != nil {
		return res, fmt.Errorf("asset: %w", err)
	}

	res.Asset = common.AssetID(asset)

	res.Deposited, err = strconv.ParseUint(rec[2], 10, 64)
	if err != nil {
		return res, fmt.Errorf("deposited: %w", err)
	}

	res.UnitaryPrice, err = strconv.ParseUint(rec[3], 10, 64)
	if err != nil {
		return res, fmt.Errorf("price: %w", err)
	}

	return res, nil
}

// State returns state of the dumped storage.
func (x *Reader) State() State {
	return x.state
}

// Listings returns all dumped listings.
func (x *Reader) Listings() []listing.Listing {
	return x.listings
}
