package dump

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/escrow-market/rent"
)

// ID is a unique identifier of the dump.
type ID struct {
	// Label of the dump source.
	Label string
	// Storage revision at which the state was pulled.
	Revision uint64
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(x.Revision, 10)
}

// DecodeString decodes ID fields from the hyphen-separated string. Label must
// not contain separator.
func (x *ID) DecodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 2 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	n, err := strconv.ParseUint(ss[1], 10, 64)
	if err != nil {
		return fmt.Errorf("decode revision from '%s': %w", ss[1], err)
	}

	x.Label = ss[0]
	x.Revision = n

	return nil
}

// State is a JSON-encoded information about the dumped storage.
type State struct {
	// Storage layout version.
	Version int `json:"version"`
	// Rent the listings were created with.
	Rent rent.Calculator `json:"rent"`
	// Number of dumped listings.
	Listings int `json:"listings"`
}

// dumpStreams groups data streams for storage state and listings.
type dumpStreams struct {
	state, listings io.ReadWriteCloser
}

// close closes all streams.
func (x *dumpStreams) close() {
	_ = x.listings.Close()
	_ = x.state.Close()
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with storage state
	stateFileSuffix = "state.json"
	// suffix of file with listings
	listingsFileSuffix = "listings.csv"
)

// initDumpStreams opens data streams for the dump files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initDumpStreams(d *dumpStreams, dir string, id ID, read bool) error {
	var err error

	pathListings := filepath.Join(dir, strings.Join([]string{id.String(), listingsFileSuffix}, sep))
	pathState := filepath.Join(dir, strings.Join([]string{id.String(), stateFileSuffix}, sep))

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		for _, p := range []string{pathListings, pathState} {
			if err = checkFileNotExists(p); err != nil {
				return err
			}
		}

		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	d.listings, err = os.OpenFile(pathListings, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with listings: %w", err)
	}

	d.state, err = os.OpenFile(pathState, flag, perm)
	if err != nil {
		_ = d.listings.Close()
		return fmt.Errorf("open file with storage state: %w", err)
	}

	return nil
}

// checkFileNotExists checks that there is no file at the specified path.
func checkFileNotExists(p string) error {
	_, err := os.Stat(p)
	if !os.IsNotExist(err) {
		if err == nil {
			err = os.ErrExist
		}
		return fmt.Errorf("file '%s' absence check failed: %w", p, err)
	}
	return nil
}
