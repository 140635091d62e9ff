// Package storage abstracts the underlying ordered byte-keyed engine behind
// the five operations the rest of the system depends on: point get, put,
// remove, prefix/range scans, and a snapshot-isolated transaction whose
// staged writes commit atomically.
//
// The engine is Badger. Its transactions see a consistent snapshot of
// committed state and detect write conflicts at commit time; a conflicting
// body is re-executed up to the configured retry limit and must therefore be
// observably idempotent. Keys iterate in byte-lexicographic order, which is
// the iteration order every scan in this package exposes.
package storage

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"github.com/iamNilotpal/vaultdb/pkg/filesys"
	"github.com/iamNilotpal/vaultdb/pkg/options"
	"go.uber.org/zap"
)

var (
	ErrStoreClosed = stdErrors.New("operation failed: cannot access closed store")
)

// Store is the transactional facade over the ordered key/value engine.
// A single Store is shared by every subsystem and is safe for concurrent use.
type Store struct {
	db      *badger.DB         // The underlying ordered engine.
	options *options.Options   // Configuration parameters controlling storage behavior.
	log     *zap.SugaredLogger // Structured logger for operational visibility.
	closed  atomic.Bool        // Tracks the store's lifecycle state.
}

// Config encapsulates the parameters required to initialize a Store.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New opens (or creates) the ordered store underneath the configured data
// directory and returns the facade. With the in-memory option set, nothing
// touches the file system and all state dies with the process.
func New(ctx context.Context, config *Config) (*Store, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("invalid configuration")
	}

	config.Logger.Infow(
		"Initializing storage system",
		"dataDir", config.Options.DataDir,
		"inMemory", config.Options.InMemory,
		"syncWrites", config.Options.SyncWrites,
	)

	badgerOptions := badger.DefaultOptions(config.Options.DataDir).
		WithInMemory(config.Options.InMemory).
		WithSyncWrites(config.Options.SyncWrites).
		WithLogger(nil)

	if config.Options.InMemory {
		badgerOptions.Dir = ""
		badgerOptions.ValueDir = ""
	} else {
		if err := filesys.CreateDir(config.Options.DataDir, 0755, true); err != nil {
			return nil, errors.NewStorageError(
				err, errors.ErrorCodeIO, "Failed to create data directory",
			).WithOperation("Open").WithDetail("path", config.Options.DataDir)
		}
	}

	db, err := badger.Open(badgerOptions)
	if err != nil {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to open storage engine",
		).WithOperation("Open").WithDetail("path", config.Options.DataDir)
	}

	config.Logger.Infow("Storage system initialized successfully", "dataDir", config.Options.DataDir)
	return &Store{db: db, options: config.Options, log: config.Logger}, nil
}

// Get returns the value stored under the key. A missing key surfaces as a
// KEY_NOT_FOUND storage error.
func (s *Store) Get(key []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NewKeyNotFoundError(string(key))
	}
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to read key").
			WithKey(string(key)).WithOperation("Get")
	}
	return value, nil
}

// Put stores the value under the key in its own transaction.
func (s *Store) Put(key, value []byte) error {
	return s.Transaction(func(tx *Txn) error {
		return tx.Set(key, value)
	})
}

// Remove deletes the key in its own transaction. Removing a missing key is
// a no-op.
func (s *Store) Remove(key []byte) error {
	return s.Transaction(func(tx *Txn) error {
		return tx.Delete(key)
	})
}

// Transaction runs the body against a snapshot-consistent view, staging
// writes that commit atomically when the body returns nil. A commit-time
// conflict with a concurrent writer re-executes the body; after the
// configured retry limit the operation fails with RETRY_LIMIT_EXCEEDED.
// Any error from the body aborts the transaction and leaves no effect.
func (s *Store) Transaction(body func(tx *Txn) error) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	limit := s.options.TransactionRetryLimit
	if limit < 1 {
		limit = options.DefaultTransactionRetryLimit
	}

	var lastErr error
	for attempt := 1; attempt <= limit; attempt++ {
		err := s.db.Update(func(btx *badger.Txn) error {
			return body(&Txn{inner: btx})
		})
		if err == nil {
			return nil
		}
		if !stdErrors.Is(err, badger.ErrConflict) {
			return err
		}
		lastErr = err
		s.log.Debugw("Transaction conflicted, retrying", "attempt", attempt, "limit", limit)
	}

	return errors.NewRetryLimitError(limit, lastErr)
}

// ScanKeys returns, in byte-lexicographic order, every key beginning with
// the prefix. Values are not touched. A nil prefix enumerates the whole
// keyspace.
func (s *Store) ScanKeys(prefix []byte) ([][]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		iterOptions := badger.DefaultIteratorOptions
		iterOptions.PrefetchValues = false
		iterOptions.Prefix = prefix

		it := txn.NewIterator(iterOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "Prefix scan failed").
			WithOperation("Scan").WithDetail("prefix", string(prefix))
	}
	return keys, nil
}

// ScanPrefix streams every (key, value) pair beginning with the prefix to
// the callback, in byte-lexicographic key order. A non-nil callback error
// stops the scan and is returned.
func (s *Store) ScanPrefix(prefix []byte, fn func(key, value []byte) error) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	// Callback errors propagate unwrapped so callers keep their own
	// error taxonomy; engine-level iterator failures are rare and surface
	// as they are.
	return s.db.View(func(txn *badger.Txn) error {
		iterOptions := badger.DefaultIteratorOptions
		iterOptions.Prefix = prefix

		it := txn.NewIterator(iterOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.KeyCopy(nil), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// ScanRange returns, in byte-lexicographic order, every key within the
// half-open or closed range between lo and hi. A nil hi leaves the range
// unbounded on the right.
func (s *Store) ScanRange(lo, hi []byte, includeLo, includeHi bool) ([][]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		iterOptions := badger.DefaultIteratorOptions
		iterOptions.PrefetchValues = false

		it := txn.NewIterator(iterOptions)
		defer it.Close()
		for it.Seek(lo); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !includeLo && bytes.Equal(key, lo) {
				continue
			}
			if hi != nil {
				boundary := bytes.Compare(key, hi)
				if boundary > 0 || (boundary == 0 && !includeHi) {
					break
				}
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "Range scan failed").
			WithOperation("Scan")
	}
	return keys, nil
}

// Sync flushes pending writes to stable storage. In-memory stores have
// nothing to flush.
func (s *Store) Sync() error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if s.options.InMemory {
		return nil
	}
	if err := s.db.Sync(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to sync storage").
			WithOperation("Sync")
	}
	return nil
}

// Close gracefully shuts down the store. Only the first call has effect.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStoreClosed
	}

	s.log.Infow("Closing storage system")
	if err := s.db.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to close storage engine").
			WithOperation("Close")
	}
	s.log.Infow("Storage system closed successfully")
	return nil
}
