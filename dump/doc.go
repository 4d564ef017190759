/*
Package dump provides I/O operations for collected states of the listing
storage.

Dumps allow to move listings between storages of different types, to inspect
them and to reproduce particular state in tests. Each dump is identified by
the label of its source (e.g. host name) and the storage revision at which the
state was pulled.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
