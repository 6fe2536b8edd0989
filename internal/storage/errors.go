// ABOUTME: Error taxonomy for the persistence layer.
// ABOUTME: ErrNotFound marks absent rows; StorageError wraps driver and transaction faults.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-row reads that match nothing.
var ErrNotFound = errors.New("not found")

// StorageError reports a failed statement or transaction. Any write that
// returns a StorageError has been rolled back in full.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
