package engine

import (
	"context"

	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/iamNilotpal/vaultdb/internal/index"
	"github.com/iamNilotpal/vaultdb/internal/storage"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"go.uber.org/multierr"
)

// Export iterates every primary key and emits its (key, value) pair. Index
// entries are derived state and are not exported; importing the sequence
// rebuilds them through the write path.
func (e *Engine) Export(ctx context.Context) ([]Entry, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	var entries []Entry
	err := e.store.ScanPrefix(nil, func(key, value []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if index.IsReserved(key) {
			return nil
		}
		doc, err := document.Unmarshal(value)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Key: string(key), Value: doc})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("Exported database", "records", len(entries))
	return entries, nil
}

// Import replays a sequence of (key, value) pairs through the full write
// path, so every imported document gets its index entries rebuilt under
// the current configuration. The first failing entry aborts the import.
func (e *Engine) Import(ctx context.Context, entries []Entry) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Key == "" {
			return errors.NewValidationError(
				nil, errors.ErrorCodeInvalidInput, "Import entry is missing its key",
			).WithField("key").WithRule("required")
		}
		if err := e.Set(ctx, entry.Key, entry.Value); err != nil {
			return err
		}
	}

	e.log.Infow("Imported database", "records", len(entries))
	return nil
}

// ClearPrefix deletes every document whose primary key starts with the
// prefix, each through the full delete path so the derived indices stay
// consistent. Reserved namespaces are never touched directly. Per-key
// failures are collected and the remaining keys still get deleted; the
// count of removed documents is returned alongside any combined error.
func (e *Engine) ClearPrefix(ctx context.Context, prefix string) (int, error) {
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}
	if index.IsReserved([]byte(prefix)) {
		return 0, errors.NewReservedKeyError(prefix)
	}

	keys, err := e.store.ScanKeys([]byte(prefix))
	if err != nil {
		return 0, err
	}

	cfg := e.snapshotConfig()
	removed := 0
	var failures error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if index.IsReserved(key) {
			continue
		}

		primaryKey := string(key)
		err := e.store.Transaction(func(tx *storage.Txn) error {
			_, err := e.maintainer.Delete(tx, cfg, primaryKey)
			return err
		})
		if err != nil {
			e.log.Errorw("Failed to clear document", "key", primaryKey, "error", err)
			failures = multierr.Append(failures, errors.NewTransactionFailedError(primaryKey, err))
			continue
		}
		removed++
	}

	e.log.Infow("Cleared prefix", "prefix", prefix, "removed", removed)
	return removed, failures
}

// Drop removes every document in the database. Equivalent to clearing the
// empty prefix.
func (e *Engine) Drop(ctx context.Context) (int, error) {
	return e.ClearPrefix(ctx, "")
}

// Stats counts the documents currently stored.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	if e.closed.Load() {
		return Stats{}, ErrEngineClosed
	}

	keys, err := e.store.ScanKeys(nil)
	if err != nil {
		return Stats{}, err
	}
	documents := 0
	for _, key := range keys {
		if !index.IsReserved(key) {
			documents++
		}
	}
	return Stats{Documents: documents}, nil
}
