package expression

import "fmt"

// ErrorCode classifies why an expression could not be built or evaluated
type ErrorCode uint8

const (
	ErrorCodeSyntax     ErrorCode = 1 // #ERROR! - malformed expression (parentheses, missing operands)
	ErrorCodeEmpty      ErrorCode = 2 // #EMPTY! - nothing to evaluate, e.g. "()"
	ErrorCodeUnresolved ErrorCode = 3 // #VALUE! - a variable was never assigned a value
)

// ErrorMapper maps error codes to the string shown in place of a value
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeSyntax:     "#ERROR!",
	ErrorCodeEmpty:      "#EMPTY!",
	ErrorCodeUnresolved: "#VALUE!",
}

// Error is returned by tree construction and evaluation. Message carries
// detail for logs, Display is what a cell shows.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrorMapper[e.Code]
}

// Display returns the short display string for the error code
func (e *Error) Display() string {
	return ErrorMapper[e.Code]
}

// Is matches any *Error with the same code, so errors.Is(err, ErrSyntax)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates an error with a formatted message
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

var (
	ErrSyntax             = &Error{Code: ErrorCodeSyntax}
	ErrEmptyExpression    = &Error{Code: ErrorCodeEmpty}
	ErrUnresolvedVariable = &Error{Code: ErrorCodeUnresolved}
)
