// Package engine provides the core database engine implementation for VaultDB.
//
// The engine is the central coordinator and entry point for all database
// operations. It orchestrates the interaction between three subsystems:
//   - Storage: the transactional facade over the ordered key/value engine
//   - Index: the maintainer keeping the three derived-index families
//     consistent with every write
//   - Query: the planner/executor answering predicate trees
//
// The engine owns the live indexing configuration. Writers and readers
// never touch it directly: each operation takes an immutable snapshot under
// the configuration lock, so a write derives all of its index mutations
// from one view and a running query plan cannot observe a configuration
// change. Dynamic indexing mutates the live configuration through
// idempotent set-insertion only.
package engine

import (
	"context"
	stdErrors "errors"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/iamNilotpal/vaultdb/internal/index"
	"github.com/iamNilotpal/vaultdb/internal/query"
	"github.com/iamNilotpal/vaultdb/internal/storage"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"github.com/iamNilotpal/vaultdb/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
)

// Engine represents the main database engine that coordinates all subsystems.
// It is safe for concurrent use; writers serialize through the storage
// facade's transactions and the configuration sits behind its own lock.
type Engine struct {
	options    *options.Options   // Configuration parameters for the engine and its subsystems.
	log        *zap.SugaredLogger // Structured logging throughout the engine.
	closed     atomic.Bool        // Tracks the engine's lifecycle state.
	store      *storage.Store     // Transactional facade over the ordered key/value engine.
	maintainer *index.Maintainer  // Derives and applies index mutations on the write path.

	configMu sync.RWMutex  // Guards the live indexing configuration.
	config   *index.Config // Live indexing configuration; snapshot before use.
}

// Config holds the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance with the provided
// configuration, opening the underlying store.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	store, err := storage.New(ctx, &storage.Config{
		Options: config.Options,
		Logger:  config.Logger,
	})
	if err != nil {
		return nil, err
	}

	maintainer, err := index.NewMaintainer(config.Logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		options:    config.Options,
		log:        config.Logger,
		store:      store,
		maintainer: maintainer,
		config: index.NewConfig(
			config.Options.HashIndexedFields,
			config.Options.SortedIndexedFields,
			config.Options.GeoIndexedFields,
		),
	}, nil
}

// snapshotConfig clones the live configuration under the read lock.
func (e *Engine) snapshotConfig() *index.Config {
	e.configMu.RLock()
	defer e.configMu.RUnlock()
	return e.config.Clone()
}

// recordHashIndexed registers field paths for future index maintenance.
// Insertion is idempotent and nothing is ever removed; existing documents
// are not retroactively indexed.
func (e *Engine) recordHashIndexed(paths []string) {
	if len(paths) == 0 {
		return
	}
	e.configMu.Lock()
	defer e.configMu.Unlock()
	for _, path := range paths {
		if e.config.AddHashIndexed(path) {
			e.log.Infow("Dynamically registered hash-indexed field", "path", path)
		}
	}
}

// validatePrimaryKey rejects empty keys and keys colliding with a reserved
// index prefix.
func validatePrimaryKey(key string) error {
	if key == "" {
		return errors.NewRequiredFieldError("key")
	}
	if index.IsReserved([]byte(key)) {
		return errors.NewReservedKeyError(key)
	}
	return nil
}

// Set stores a document under the primary key, atomically replacing the
// previous document and every index entry derived from it.
func (e *Engine) Set(ctx context.Context, key string, value any) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if err := validatePrimaryKey(key); err != nil {
		return err
	}

	cfg := e.snapshotConfig()
	return e.store.Transaction(func(tx *storage.Txn) error {
		return e.maintainer.Put(tx, cfg, key, value)
	})
}

// BatchSet applies every item in a single transaction. A failing item
// aborts the whole batch and names the offending key.
func (e *Engine) BatchSet(ctx context.Context, items []SetItem) error {
	operations := make([]Operation, 0, len(items))
	for _, item := range items {
		operations = append(operations, Operation{Type: OpSet, Key: item.Key, Value: item.Value})
	}
	return e.ExecuteTransaction(ctx, operations)
}

// ExecuteTransaction applies a heterogeneous list of set and delete
// operations atomically. Either every operation takes effect or none does;
// the error surfaced for a failing batch names the offending key.
func (e *Engine) ExecuteTransaction(ctx context.Context, operations []Operation) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if len(operations) == 0 {
		return errors.NewRequiredFieldError("operations")
	}
	for _, operation := range operations {
		if err := validatePrimaryKey(operation.Key); err != nil {
			return err
		}
		if operation.Type != OpSet && operation.Type != OpDelete {
			return errors.NewValidationError(
				nil, errors.ErrorCodeInvalidInput, "Unknown transaction operation type",
			).WithField("type").WithProvided(operation.Type).WithExpected([]string{OpSet, OpDelete})
		}
	}

	cfg := e.snapshotConfig()
	err := e.store.Transaction(func(tx *storage.Txn) error {
		for _, operation := range operations {
			switch operation.Type {
			case OpSet:
				if err := e.maintainer.Put(tx, cfg, operation.Key, operation.Value); err != nil {
					return errors.NewTransactionFailedError(operation.Key, err)
				}
			case OpDelete:
				if _, err := e.maintainer.Delete(tx, cfg, operation.Key); err != nil {
					return errors.NewTransactionFailedError(operation.Key, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		e.log.Errorw("Transaction aborted", "operations", len(operations), "error", err)
	}
	return err
}

// Get returns the document stored under the primary key.
func (e *Engine) Get(ctx context.Context, key string) (any, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if err := validatePrimaryKey(key); err != nil {
		return nil, err
	}

	data, err := e.store.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	return document.Unmarshal(data)
}

// GetPartial returns a projection of the stored document carrying only the
// requested paths.
func (e *Engine) GetPartial(ctx context.Context, key string, paths []string) (any, error) {
	doc, err := e.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return query.Project(doc, paths), nil
}

// Delete removes the document and every index entry derived from it, then
// flushes so the removal is durable on return. Deleting a missing key is a
// no-op success.
func (e *Engine) Delete(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if err := validatePrimaryKey(key); err != nil {
		return err
	}

	cfg := e.snapshotConfig()
	var existed bool
	err := e.store.Transaction(func(tx *storage.Txn) error {
		var err error
		existed, err = e.maintainer.Delete(tx, cfg, key)
		return err
	})
	if err != nil {
		return err
	}
	if !existed {
		e.log.Warnw("Attempted to delete non-existent key", "key", key)
		return nil
	}
	return e.store.Sync()
}

// QueryAnd evaluates a conjunction of textual conditions and returns the
// matching documents.
func (e *Engine) QueryAnd(ctx context.Context, conditions []query.Condition) ([]any, error) {
	node, err := query.FromConditions(conditions)
	if err != nil {
		return nil, err
	}
	return e.QueryAST(ctx, node, nil, -1, 0)
}

// QueryWithinRadius returns the documents whose GeoPoint at the path lies
// within radiusMeters of the center.
func (e *Engine) QueryWithinRadius(ctx context.Context, path string, lat, lon, radiusMeters float64) ([]any, error) {
	return e.QueryAST(ctx, query.GeoWithinRadius{Path: path, Lat: lat, Lon: lon, Radius: radiusMeters}, nil, -1, 0)
}

// QueryInBox returns the documents whose GeoPoint at the path lies inside
// the rectangle.
func (e *Engine) QueryInBox(ctx context.Context, path string, minLat, minLon, maxLat, maxLon float64) ([]any, error) {
	return e.QueryAST(ctx, query.GeoInBox{
		Path: path, MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon,
	}, nil, -1, 0)
}

// QueryAST evaluates a predicate tree and returns matching documents after
// offset, limit and projection. Field paths named by equality leaves are
// recorded for future index maintenance before execution.
func (e *Engine) QueryAST(ctx context.Context, node query.Node, projection []string, limit, offset int) ([]any, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if err := query.Validate(node); err != nil {
		return nil, err
	}

	e.recordHashIndexed(query.CollectEqPaths(node))

	executor := query.NewExecutor(e.store, e.snapshotConfig(), e.log)
	results, err := executor.Run(ctx, node, projection, limit, offset)
	if err != nil {
		return nil, err
	}

	documents := make([]any, 0, len(results))
	for _, result := range results {
		documents = append(documents, result.Document)
	}
	return documents, nil
}

// Sync flushes pending writes to stable storage.
func (e *Engine) Sync() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.store.Sync()
}

// Close gracefully shuts down the engine and releases all associated
// resources. Only the first call has effect.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return e.store.Close()
}
