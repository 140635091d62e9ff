package errors

// CodecError is a specialized error type for the value codec: scalar
// encoding/decoding and dotted-path traversal of document trees. It embeds
// baseError and adds the path and type tag involved in the failure.
type CodecError struct {
	*baseError
	path string // Dotted field path being traversed or encoded, if any.
	tag  byte   // Type tag involved in an encode/decode failure, if any.
}

// NewCodecError creates a new codec-specific error.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the CodecError type.
func (ce *CodecError) WithMessage(msg string) *CodecError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithCode sets the error code while preserving the CodecError type.
func (ce *CodecError) WithCode(code ErrorCode) *CodecError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithPath records the dotted field path involved in the failure.
func (ce *CodecError) WithPath(path string) *CodecError {
	ce.path = path
	return ce
}

// WithTag records the scalar type tag involved in the failure.
func (ce *CodecError) WithTag(tag byte) *CodecError {
	ce.tag = tag
	return ce
}

// Path returns the dotted field path involved in the failure.
func (ce *CodecError) Path() string {
	return ce.path
}

// Tag returns the scalar type tag involved in the failure.
func (ce *CodecError) Tag() byte {
	return ce.tag
}

// NewUnsupportedValueError creates an error for a value the scalar codec
// does not handle.
func NewUnsupportedValueError(value any) *CodecError {
	return NewCodecError(nil, ErrorCodeUnsupportedValue, "value is not an encodable scalar").
		WithDetail("valueType", typeName(value))
}

// NewCorruptEncodingError creates an error for corrupt or truncated encoded bytes.
func NewCorruptEncodingError(cause error, detail string) *CodecError {
	return NewCodecError(cause, ErrorCodeCodecInternal, "corrupt scalar encoding").
		WithDetail("reason", detail)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int64, int, uint64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
