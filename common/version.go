package common

import (
	"errors"
	"fmt"
)

const (
	major = 0
	minor = 1
	patch = 0

	// Oldest layout version which can be opened without migration.
	prevMajor = 0
	prevMinor = 1
	prevPatch = 0

	// Version of the listing storage layout.
	Version = major*1_000_000 + minor*1_000 + patch

	// PrevVersion is the oldest compatible layout version.
	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch
)

// ErrVersionMismatch is returned by CheckVersion for incompatible layouts.
var ErrVersionMismatch = errors.New("storage layout version mismatch")

// CheckVersion checks that storage written with the given layout version can be
// served by the current code.
func CheckVersion(from int) error {
	if from < PrevVersion {
		return fmt.Errorf("%w: expected >=%d, got %d", ErrVersionMismatch, PrevVersion, from)
	}
	if from > Version {
		return fmt.Errorf("%w: expected <=%d, got %d", ErrVersionMismatch, Version, from)
	}
	return nil
}
