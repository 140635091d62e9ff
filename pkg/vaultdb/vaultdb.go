// Package vaultdb provides an embedded, single-node document database over
// an ordered key/value engine. Documents are tree-shaped values addressed
// by a primary string key; three coordinated secondary-index families —
// equality, sorted and geospatial — are maintained transactionally on every
// write and answer exact-match, range, logical and geographic queries
// without a server process.
//
// Instance is the primary entry point. It exposes the blocking operations
// surface: writes (Set, BatchSet, ExecuteTransaction, Delete), reads (Get,
// GetPartial), queries (QueryAnd, QueryAST, QueryWithinRadius, QueryInBox)
// and bulk operations (Export, Import, ClearPrefix, Drop).
package vaultdb

import (
	"context"

	"github.com/iamNilotpal/vaultdb/internal/engine"
	"github.com/iamNilotpal/vaultdb/internal/query"
	"github.com/iamNilotpal/vaultdb/pkg/logger"
	"github.com/iamNilotpal/vaultdb/pkg/options"
)

// Instance represents a VaultDB database handle. It encapsulates the core
// engine responsible for data handling and the configuration options for
// this specific database instance. An Instance is shareable across
// goroutines.
type Instance struct {
	engine  *engine.Engine   // The underlying database engine handling read/write operations.
	options *options.Options // Configuration options applied to this DB instance.
}

// NewInstance creates and initializes a new VaultDB instance.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores a document under the primary key. A previous document under
// the same key is replaced; its index entries are removed and the new
// document's entries created within the same transaction.
func (i *Instance) Set(ctx context.Context, key string, value any) error {
	return i.engine.Set(ctx, key, value)
}

// BatchSet stores every item atomically: either all documents (and their
// index entries) land, or none do.
func (i *Instance) BatchSet(ctx context.Context, items []SetItem) error {
	converted := make([]engine.SetItem, 0, len(items))
	for _, item := range items {
		converted = append(converted, engine.SetItem{Key: item.Key, Value: item.Value})
	}
	return i.engine.BatchSet(ctx, converted)
}

// ExecuteTransaction applies a heterogeneous list of set and delete
// operations atomically. A failing operation surfaces as a
// transaction-failed error naming the offending key, and no operation in
// the batch takes effect.
func (i *Instance) ExecuteTransaction(ctx context.Context, operations []Operation) error {
	converted := make([]engine.Operation, 0, len(operations))
	for _, operation := range operations {
		converted = append(converted, engine.Operation{
			Type:  string(operation.Type),
			Key:   operation.Key,
			Value: operation.Value,
		})
	}
	return i.engine.ExecuteTransaction(ctx, converted)
}

// Get retrieves the document stored under the primary key. A missing key
// surfaces as a not-found error (errors.IsNotFound).
func (i *Instance) Get(ctx context.Context, key string) (any, error) {
	return i.engine.Get(ctx, key)
}

// GetPartial retrieves a projection of the stored document carrying only
// the requested field paths. Missing paths are simply absent from the
// result.
func (i *Instance) GetPartial(ctx context.Context, key string, paths []string) (any, error) {
	return i.engine.GetPartial(ctx, key, paths)
}

// Delete removes the document and all of its index entries atomically and
// flushes before returning, making the removal durable on a successful
// await. Deleting a missing key is a no-op success.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Delete(ctx, key)
}

// QueryAnd evaluates a conjunction of textual conditions. Each condition is
// a (path, operator, value) triple; accepted operators are "===",
// "includes", "<", "<=", ">", ">=", "!=". Value text parses as a boolean
// for true/false, as a number for numeric literals and as a string
// otherwise, with surrounding double quotes stripped.
func (i *Instance) QueryAnd(ctx context.Context, conditions []Condition) ([]any, error) {
	converted := make([]query.Condition, 0, len(conditions))
	for _, condition := range conditions {
		converted = append(converted, query.Condition{
			Path:     condition.Path,
			Operator: condition.Operator,
			Value:    condition.Value,
		})
	}
	return i.engine.QueryAnd(ctx, converted)
}

// QueryWithinRadius returns the documents whose GeoPoint at the path lies
// within radiusMeters of (lat, lon), by haversine distance.
func (i *Instance) QueryWithinRadius(ctx context.Context, path string, lat, lon, radiusMeters float64) ([]any, error) {
	return i.engine.QueryWithinRadius(ctx, path, lat, lon, radiusMeters)
}

// QueryInBox returns the documents whose GeoPoint at the path lies inside
// the rectangle spanned by the min and max corners.
func (i *Instance) QueryInBox(ctx context.Context, path string, minLat, minLon, maxLat, maxLon float64) ([]any, error) {
	return i.engine.QueryInBox(ctx, path, minLat, minLon, maxLat, maxLon)
}

// QueryAST evaluates a predicate tree, then applies offset, limit
// (negative means unlimited) and projection in that order. Result order
// follows the byte order of primary keys, the iteration order of the
// underlying engine.
func (i *Instance) QueryAST(ctx context.Context, node QueryNode, projection []string, limit, offset int) ([]any, error) {
	return i.engine.QueryAST(ctx, toInternal(node), projection, limit, offset)
}

// Export emits every stored document as a sequence of (key, value) pairs.
// Index entries are not exported; they are rebuilt on import.
func (i *Instance) Export(ctx context.Context) ([]Entry, error) {
	entries, err := i.engine.Export(ctx)
	if err != nil {
		return nil, err
	}
	exported := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		exported = append(exported, Entry{Key: entry.Key, Value: entry.Value})
	}
	return exported, nil
}

// Import replays a sequence of (key, value) pairs through the full write
// path, rebuilding index entries under this instance's configuration.
func (i *Instance) Import(ctx context.Context, entries []Entry) error {
	converted := make([]engine.Entry, 0, len(entries))
	for _, entry := range entries {
		converted = append(converted, engine.Entry{Key: entry.Key, Value: entry.Value})
	}
	return i.engine.Import(ctx, converted)
}

// ClearPrefix deletes every document whose primary key starts with the
// prefix, each through the full delete path, and returns how many were
// removed.
func (i *Instance) ClearPrefix(ctx context.Context, prefix string) (int, error) {
	return i.engine.ClearPrefix(ctx, prefix)
}

// Drop removes every document in the database and returns the count.
func (i *Instance) Drop(ctx context.Context) (int, error) {
	return i.engine.Drop(ctx)
}

// Stats reports a point-in-time document count.
func (i *Instance) Stats(ctx context.Context) (Stats, error) {
	stats, err := i.engine.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Documents: stats.Documents}, nil
}

// Sync flushes pending writes to stable storage.
func (i *Instance) Sync() error {
	return i.engine.Sync()
}

// Close gracefully shuts down the instance, flushing pending writes and
// releasing all associated resources.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
