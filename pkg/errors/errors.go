// Package errors provides the structured error system shared by every VaultDB
// subsystem. Errors carry a machine-readable code, an optional cause chain and
// a bag of structured details, so callers can branch on failure category
// without parsing messages and operators get full context in logs.
//
// The system is built around a foundational baseError extended by
// domain-specific types: ValidationError for client input problems,
// StorageError for the transactional key/value facade, CodecError for the
// value encoding layer and QueryError for the predicate surface. Each type
// keeps the fluent With* chaining of the base while adding its own context
// fields, and each has an Is*/As* pair for detection and extraction.
//
// The error-code taxonomy maps onto four handling bands: client errors
// (INVALID_INPUT, INVALID_PATH, INVALID_COMPARISON_VALUE, AST_ERROR) are
// recovered only by a caller fix; KEY_NOT_FOUND is surfaced directly;
// transient transaction conflicts are retried internally and surface as
// RETRY_LIMIT_EXCEEDED only after the bounded retry count runs out; internal
// errors (IO_ERROR, CODEC_INTERNAL, INTERNAL_ERROR) surface with diagnostic
// detail.
package errors

import (
	stdErrors "errors"
)

// IsValidationError checks if the given error is a ValidationError or contains
// one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError determines if an error originated at the transactional
// key/value facade.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsCodecError identifies errors raised by the value codec: scalar
// encode/decode failures and invalid path traversal.
func IsCodecError(err error) bool {
	var ce *CodecError
	return stdErrors.As(err, &ce)
}

// IsQueryError identifies errors raised while parsing or executing a query.
func IsQueryError(err error) bool {
	var qe *QueryError
	return stdErrors.As(err, &qe)
}

// IsNotFound reports whether the error chain carries a KEY_NOT_FOUND code.
// Lookup misses are part of the normal API contract and are the only errors
// most callers branch on.
func IsNotFound(err error) bool {
	if se, ok := AsStorageError(err); ok {
		return se.Code() == ErrorCodeKeyNotFound
	}
	return false
}

// IsRetryLimit reports whether the error chain carries a
// RETRY_LIMIT_EXCEEDED code.
func IsRetryLimit(err error) bool {
	if se, ok := AsStorageError(err); ok {
		return se.Code() == ErrorCodeRetryLimitExceeded
	}
	return false
}

// AsValidationError safely extracts a ValidationError from an error chain,
// providing access to the field, rule, provided and expected context.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts StorageError context from an error chain,
// providing access to the key, operation and retry attempts involved.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsCodecError extracts CodecError context, providing access to the path and
// type tag involved in the failure.
func AsCodecError(err error) (*CodecError, bool) {
	var ce *CodecError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsQueryError extracts QueryError context, providing access to the path and
// operator being evaluated.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if stdErrors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't have specific codes. This
// provides a consistent way to categorize errors for monitoring and handling.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}
	if ce, ok := AsCodecError(err); ok {
		return ce.Code()
	}
	if qe, ok := AsQueryError(err); ok {
		return qe.Code()
	}
	return ErrorCodeInternal
}
