package options

const (
	// Specifies the default base directory where VaultDB will store its data
	// files. If no other directory is specified during initialization, this
	// path will be used.
	DefaultDataDir = "/var/lib/vaultdb"

	// Defines how many times a conflicting transaction body is re-executed
	// before the operation fails with a retry-limit error.
	DefaultTransactionRetryLimit = 10

	// Upper bound on the configurable retry limit. A conflict loop that
	// survives this many attempts indicates pathological contention, not a
	// transient race.
	MaxTransactionRetryLimit = 100
)

// Holds the default configuration settings for a VaultDB instance.
var defaultOptions = Options{
	DataDir:               DefaultDataDir,
	TransactionRetryLimit: DefaultTransactionRetryLimit,
	SyncWrites:            false,
	InMemory:              false,
}

func NewDefaultOptions() Options {
	opts := defaultOptions
	opts.HashIndexedFields = nil
	opts.SortedIndexedFields = nil
	opts.GeoIndexedFields = nil
	return opts
}
