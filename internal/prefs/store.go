// ABOUTME: Key-value capability for small app flags and settings.
// ABOUTME: Store is satisfied by the local badger store and the Charm Cloud client.
package prefs

import "errors"

// Store gets and sets string values by key.
type Store interface {
	// Get returns the value for key; ok is false when the key was never set.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// ErrReadOnly is returned when the backing store is locked by another
// process: by OpenBadger and the charm client on open, and by the charm
// client's writes.
var ErrReadOnly = errors.New("cannot write: store is locked by another process")
