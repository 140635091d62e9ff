package errors

// StorageError is a specialized error type for failures at the transactional
// key/value facade. It embeds baseError to inherit all the standard error
// functionality, then adds storage-specific fields that pinpoint which key
// and operation were involved.
type StorageError struct {
	*baseError
	key       string // Primary key being accessed when the error occurred.
	operation string // Storage operation being performed: "Get", "Put", "Remove", "Scan", "Transaction".
	attempts  int    // How many times a conflicting transaction body was retried.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the StorageError type.
func (se *StorageError) WithMessage(msg string) *StorageError {
	se.baseError.WithMessage(msg)
	return se
}

// WithCode sets the error code while preserving the StorageError type.
func (se *StorageError) WithCode(code ErrorCode) *StorageError {
	se.baseError.WithCode(code)
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithKey records which primary key was being accessed when the error occurred.
func (se *StorageError) WithKey(key string) *StorageError {
	se.key = key
	return se
}

// WithOperation records what storage operation was being performed.
func (se *StorageError) WithOperation(operation string) *StorageError {
	se.operation = operation
	return se
}

// WithAttempts records how many times a transaction body was retried.
func (se *StorageError) WithAttempts(attempts int) *StorageError {
	se.attempts = attempts
	return se
}

// Key returns the primary key that was being accessed.
func (se *StorageError) Key() string {
	return se.key
}

// Operation returns the name of the operation that was being performed.
func (se *StorageError) Operation() string {
	return se.operation
}

// Attempts returns the retry count at the time of the error.
func (se *StorageError) Attempts() int {
	return se.attempts
}

// NewKeyNotFoundError creates the error surfaced when a primary key has no
// stored document.
func NewKeyNotFoundError(key string) *StorageError {
	return NewStorageError(nil, ErrorCodeKeyNotFound, "key not found").
		WithKey(key).
		WithOperation("Get")
}

// NewRetryLimitError creates the error surfaced when a transaction body kept
// conflicting and the bounded retry count ran out.
func NewRetryLimitError(attempts int, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeRetryLimitExceeded, "transaction retry limit exceeded").
		WithOperation("Transaction").
		WithAttempts(attempts)
}

// NewTransactionFailedError creates the error surfaced when a transactional
// batch fails. The offending key is named; no operation in the batch takes effect.
func NewTransactionFailedError(key string, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeTransactionFailed, "transaction failed, no operation applied").
		WithKey(key).
		WithOperation("Transaction")
}
