// Package options provides data structures and functions for configuring
// the VaultDB database. It defines the parameters that control storage
// behavior, transactional retries and the three secondary-index families:
// equality (hash), sorted and geospatial.
package options

import "strings"

// Defines the configuration parameters for a VaultDB instance.
type Options struct {
	// Specifies the base path where the database files will be stored.
	//
	// Default: "/var/lib/vaultdb"
	DataDir string `json:"dataDir"`

	// Field paths maintained in the equality index. A write derives one
	// equality entry per scalar (or primitive array element) found at a
	// configured path.
	HashIndexedFields []string `json:"hashIndexedFields"`

	// Field paths maintained in the sorted index using the order-preserving
	// scalar encoding.
	SortedIndexedFields []string `json:"sortedIndexedFields"`

	// Field paths maintained in the geospatial index. Only values shaped as
	// a {lat, lon} pair of finite doubles are indexed.
	GeoIndexedFields []string `json:"geoIndexedFields"`

	// Defines how many times a conflicting transaction body is re-executed
	// before surfacing a retry-limit error.
	//
	//  - Default: 10
	//  - Maximum: 100
	//  - Minimum: 1
	TransactionRetryLimit int `json:"transactionRetryLimit"`

	// When true every committed write is synced to disk before returning.
	// Deletes additionally flush explicitly regardless of this setting.
	SyncWrites bool `json:"syncWrites"`

	// When true the store runs fully in memory with no files on disk.
	// Intended for tests and ephemeral workloads.
	InMemory bool `json:"inMemory"`
}

// OptionFunc is a function type that modifies the VaultDB configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.TransactionRetryLimit = opts.TransactionRetryLimit
		o.SyncWrites = opts.SyncWrites
		o.InMemory = opts.InMemory
	}
}

// Sets the primary data directory for VaultDB.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Registers the field paths maintained in the equality index.
func WithHashIndexedFields(paths ...string) OptionFunc {
	return func(o *Options) {
		o.HashIndexedFields = appendPaths(o.HashIndexedFields, paths)
	}
}

// Registers the field paths maintained in the sorted index.
func WithSortedIndexedFields(paths ...string) OptionFunc {
	return func(o *Options) {
		o.SortedIndexedFields = appendPaths(o.SortedIndexedFields, paths)
	}
}

// Registers the field paths maintained in the geospatial index.
func WithGeoIndexedFields(paths ...string) OptionFunc {
	return func(o *Options) {
		o.GeoIndexedFields = appendPaths(o.GeoIndexedFields, paths)
	}
}

// Sets the bounded retry count for conflicting transactions.
func WithTransactionRetryLimit(limit int) OptionFunc {
	return func(o *Options) {
		if limit >= 1 && limit <= MaxTransactionRetryLimit {
			o.TransactionRetryLimit = limit
		}
	}
}

// Makes every committed write sync to disk before returning.
func WithSyncWrites(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncWrites = sync
	}
}

// Runs the store fully in memory with no files on disk.
func WithInMemory(inMemory bool) OptionFunc {
	return func(o *Options) {
		o.InMemory = inMemory
	}
}

func appendPaths(existing []string, paths []string) []string {
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		duplicate := false
		for _, known := range existing {
			if known == path {
				duplicate = true
				break
			}
		}
		if !duplicate {
			existing = append(existing, path)
		}
	}
	return existing
}
