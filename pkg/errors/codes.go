package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any part of the system. These codes provide the foundation
// layer of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations at the
	// storage engine boundary: opening the data directory, reading or
	// writing entries, flushing to disk.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. The
	// problem lies with the request itself rather than with the system.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These indicate bugs or assertion failures that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes cover failures raised by the transactional
// key/value facade underneath the document store.
const (
	// ErrorCodeKeyNotFound indicates a lookup for a primary key that has no
	// stored document.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeTransactionFailed indicates that a transactional batch could
	// not be applied. No operation in the batch takes effect.
	ErrorCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"

	// ErrorCodeRetryLimitExceeded indicates that a transaction body kept
	// conflicting with concurrent writers and the bounded retry count ran
	// out before a clean commit.
	ErrorCodeRetryLimitExceeded ErrorCode = "RETRY_LIMIT_EXCEEDED"
)

// Codec-specific error codes cover the value encoding and document tree
// traversal layer.
const (
	// ErrorCodeInvalidPath indicates a dotted field path that cannot be
	// applied to the document it addresses: an out-of-range array index, a
	// numeric segment against a missing object, or an empty segment.
	ErrorCodeInvalidPath ErrorCode = "INVALID_PATH"

	// ErrorCodeUnsupportedValue indicates an attempt to encode a value the
	// scalar codec does not handle, such as an object, an array or a
	// non-finite number.
	ErrorCodeUnsupportedValue ErrorCode = "UNSUPPORTED_VALUE"

	// ErrorCodeCodecInternal indicates corrupt or truncated encoded bytes:
	// an unknown type tag, a short payload, or invalid hex in an index key.
	ErrorCodeCodecInternal ErrorCode = "CODEC_INTERNAL"
)

// Query-specific error codes cover the predicate surface.
const (
	// ErrorCodeASTError indicates a malformed predicate tree: an unknown
	// node kind, a missing operand, or an unsupported operator string.
	ErrorCodeASTError ErrorCode = "AST_ERROR"

	// ErrorCodeInvalidComparisonValue indicates a query value that cannot
	// participate in the requested comparison.
	ErrorCodeInvalidComparisonValue ErrorCode = "INVALID_COMPARISON_VALUE"

	// ErrorCodeNotAGeoPoint indicates a geo query against a field whose
	// stored value is not a {lat, lon} pair of finite doubles.
	ErrorCodeNotAGeoPoint ErrorCode = "NOT_A_GEOPOINT"
)
