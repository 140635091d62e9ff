package storage

import (
	stdErrors "errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
)

// Txn is the handle a transaction body uses to read the snapshot and stage
// writes. Staged writes become visible only when the body returns nil and
// the commit succeeds.
type Txn struct {
	inner *badger.Txn
}

// Get reads a key from the transaction's snapshot, including writes staged
// earlier in the same transaction. The second return reports presence.
func (t *Txn) Get(key []byte) ([]byte, bool, error) {
	item, err := t.inner.Get(key)
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to read key in transaction").
			WithKey(string(key)).WithOperation("Get")
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to copy value in transaction").
			WithKey(string(key)).WithOperation("Get")
	}
	return value, true, nil
}

// Set stages a write of value under key.
func (t *Txn) Set(key, value []byte) error {
	if err := t.inner.Set(key, value); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to stage write").
			WithKey(string(key)).WithOperation("Put")
	}
	return nil
}

// Delete stages removal of key. Deleting a missing key is a no-op.
func (t *Txn) Delete(key []byte) error {
	if err := t.inner.Delete(key); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to stage delete").
			WithKey(string(key)).WithOperation("Remove")
	}
	return nil
}
