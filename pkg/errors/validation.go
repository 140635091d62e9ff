package errors

// ValidationError is a specialized error type for input validation failures.
// It embeds baseError to inherit all the standard error functionality, then adds
// validation-specific fields that identify exactly what rule was violated and
// what a valid input would have looked like.
type ValidationError struct {
	*baseError

	field    string // Which field or argument failed validation.
	rule     string // The validation rule that was violated.
	provided any    // The value that was provided and failed.
	expected any    // What a valid value would have been.
}

// NewValidationError creates a new validation-specific error.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *ValidationError instead of *baseError
// so method chaining maintains the correct error type.

// WithMessage updates the error message while maintaining the ValidationError type.
func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

// WithCode sets the error code while preserving the ValidationError type.
func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

// WithDetail adds contextual information while maintaining the ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField sets which field failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures what value was provided that failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithExpected describes what would have been a valid value.
func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

// Field returns the field name that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was provided and failed validation.
func (ve *ValidationError) Provided() any {
	return ve.provided
}

// Expected returns what would have been a valid value.
func (ve *ValidationError) Expected() any {
	return ve.expected
}

// NewRequiredFieldError creates a specialized error for missing required fields.
func NewRequiredFieldError(fieldName string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		"Required field is missing or empty",
	).WithField(fieldName).WithRule("required")
}

// NewReservedKeyError creates an error for attempts to use a reserved index
// prefix as a primary key. Reserved prefixes never name user documents.
func NewReservedKeyError(key string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		"Key collides with a reserved index prefix",
	).WithField("key").WithRule("reserved_prefix").WithProvided(key)
}

// NewInvalidPathError creates an error for a field path that cannot be
// applied to the document it addresses.
func NewInvalidPathError(path string, reason string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidPath,
		"Field path cannot be applied to the document",
	).WithField("path").WithRule("path_shape").WithProvided(path).WithDetail("reason", reason)
}
