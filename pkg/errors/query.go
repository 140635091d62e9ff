package errors

// QueryError is a specialized error type for the predicate surface: AST
// construction, condition parsing and query execution. It embeds baseError
// and adds the field path and operator being evaluated.
type QueryError struct {
	*baseError
	path     string // Field path the predicate addresses, if any.
	operator string // Operator being evaluated: "===", "includes", "<", ">=", etc.
}

// NewQueryError creates a new query-specific error.
func NewQueryError(err error, code ErrorCode, msg string) *QueryError {
	return &QueryError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the QueryError type.
func (qe *QueryError) WithMessage(msg string) *QueryError {
	qe.baseError.WithMessage(msg)
	return qe
}

// WithCode sets the error code while preserving the QueryError type.
func (qe *QueryError) WithCode(code ErrorCode) *QueryError {
	qe.baseError.WithCode(code)
	return qe
}

// WithDetail adds contextual information while maintaining the QueryError type.
func (qe *QueryError) WithDetail(key string, value any) *QueryError {
	qe.baseError.WithDetail(key, value)
	return qe
}

// WithPath records the field path the predicate addresses.
func (qe *QueryError) WithPath(path string) *QueryError {
	qe.path = path
	return qe
}

// WithOperator records the operator being evaluated.
func (qe *QueryError) WithOperator(operator string) *QueryError {
	qe.operator = operator
	return qe
}

// Path returns the field path the predicate addresses.
func (qe *QueryError) Path() string {
	return qe.path
}

// Operator returns the operator being evaluated.
func (qe *QueryError) Operator() string {
	return qe.operator
}

// NewASTError creates an error for a malformed predicate tree.
func NewASTError(msg string) *QueryError {
	return NewQueryError(nil, ErrorCodeASTError, msg)
}

// NewUnknownOperatorError creates an error for an operator string the
// condition surface does not accept.
func NewUnknownOperatorError(operator string) *QueryError {
	return NewQueryError(nil, ErrorCodeASTError, "unknown comparison operator").
		WithOperator(operator)
}

// NewNotAGeoPointError creates an error for a geo query whose target value
// is not a {lat, lon} pair of finite doubles.
func NewNotAGeoPointError(path string) *QueryError {
	return NewQueryError(nil, ErrorCodeNotAGeoPoint, "value is not a geo point").
		WithPath(path)
}
