// ABOUTME: Local badger-backed implementation of Store.
// ABOUTME: Keeps flags on device under the data directory; no network involved.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v3"
)

// KeyPrefix namespaces preference keys inside the badger keyspace.
const KeyPrefix = "pref:"

// BadgerStore persists preferences in a badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger store in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create prefs directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if IsLocked(err) {
		return nil, fmt.Errorf("open prefs store %s: %w", dir, ErrReadOnly)
	}
	if err != nil {
		return nil, fmt.Errorf("open prefs store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// IsLocked reports whether err is badger refusing a directory that another
// process holds open. Badger formats the cause into the message, so the
// check matches text.
func IsLocked(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Cannot acquire directory lock") ||
		strings.Contains(msg, "Another process is using this Badger database")
}

// OpenMemory opens a store that lives only as long as the process.
func OpenMemory() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory prefs store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get returns the stored value for key.
func (s *BadgerStore) Get(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(KeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(value), true, nil
}

// Set stores value under key.
func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(KeyPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
