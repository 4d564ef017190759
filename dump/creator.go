package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/escrow-market/listing"
)

// Creator dumps listing storage. Output file format:
//
//	'<label>-<revision>-state.json': JSON-encoded State
//	'<label>-<revision>-listings.csv': CSV of listings
//
// Listings CSV are 'owner,asset,deposited,price' where owner is a base58
// identity and the rest are decimal numbers.
//
// Use IterateDumps or Open to access existing dumps.
type Creator struct {
	dumpStreams

	state State

	listingsCSV *csv.Writer
}

// NewCreator returns Creator which dumps storage state into given directory.
// The dump is identified by specified ID. Resulting Creator should be closed
// when finished working with it.
//
// NewCreator fails if dump with provided ID already exists or ID label is
// empty or contains '-'.
func NewCreator(dir string, id ID, st State) (*Creator, error) {
	var res Creator

	if id.Label == "" || strings.Contains(id.Label, sep) {
		return nil, fmt.Errorf("invalid dump label '%s'", id.Label)
	}

	err := initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.state = st
	res.state.Listings = 0
	res.listingsCSV = csv.NewWriter(res.dumpStreams.listings)

	return &res, nil
}

// AddListing adds listing to the resulting dump. After all needed listings
// are added, they should be flushed via Flush method.
func (x *Creator) AddListing(l listing.Listing) error {
	err := x.listingsCSV.Write([]string{
		l.Owner.String(),
		strconv.FormatUint(uint64(l.Asset), 10),
		strconv.FormatUint(l.Deposited, 10),
		strconv.FormatUint(l.UnitaryPrice, 10),
	})
	if err != nil {
		return fmt.Errorf("write listing as CSV data: %w", err)
	}

	x.state.Listings++

	return nil
}

// Flush flushes accumulated dump to the file system.
func (x *Creator) Flush() error {
	x.listingsCSV.Flush()

	err := x.listingsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	jEnc := json.NewEncoder(x.dumpStreams.state)
	jEnc.SetIndent("", " ")

	err = jEnc.Encode(x.state)
	if err != nil {
		return fmt.Errorf("encode storage state to JSON: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}
