package spreadsheet

import "fmt"

// AppErrorCode represents gRPC-style error codes for application-level errors.
// note that we are skipping error codes that don't make sense for our use-case,
// like unauthenticated, or permission denied.
type AppErrorCode int

const (
	// InvalidArgument indicates client specified an invalid argument, such
	// as a malformed persisted document or a non-positive grid size.
	InvalidArgument AppErrorCode = 3

	// FailedPrecondition indicates operation was rejected because the
	// system is not in a state required for the operation's execution.
	FailedPrecondition AppErrorCode = 9

	// OutOfRange means a row or column was outside the grid.
	OutOfRange AppErrorCode = 11

	// Internal errors. Means some invariants expected by underlying
	// system has been broken, such as a cycle in the dependency graph.
	Internal AppErrorCode = 13
)

// AppError represents errors at the application level (not
// formula or reference errors)
type AppError struct {
	Code    AppErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewApplicationError creates a new application error
func NewApplicationError(code AppErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// ReferenceKind classifies a rejected cell reference
type ReferenceKind uint8

const (
	ReferenceBad      ReferenceKind = 1
	ReferenceSelf     ReferenceKind = 2
	ReferenceCircular ReferenceKind = 3
)

// ReferenceMapper maps reference kinds to the string a cell displays
var ReferenceMapper = map[ReferenceKind]string{
	ReferenceBad:      "!(bad reference)",
	ReferenceSelf:     "!(self reference)",
	ReferenceCircular: "!(circular reference)",
}

// ReferenceError rejects a formula before it takes effect. Name is the
// offending referenced name, Cell the cell being edited.
type ReferenceError struct {
	Kind ReferenceKind
	Name string
	Cell string
}

func (e *ReferenceError) Error() string {
	return ReferenceMapper[e.Kind]
}

// Detail describes the error with the names involved, for logs
func (e *ReferenceError) Detail() string {
	switch e.Kind {
	case ReferenceSelf:
		return fmt.Sprintf("%s references itself", e.Cell)
	case ReferenceCircular:
		return fmt.Sprintf("%s -> %s leads back to %s", e.Cell, e.Name, e.Cell)
	default:
		return fmt.Sprintf("%s references unknown cell %q", e.Cell, e.Name)
	}
}

// Is matches any *ReferenceError of the same kind
func (e *ReferenceError) Is(target error) bool {
	t, ok := target.(*ReferenceError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrBadReference      = &ReferenceError{Kind: ReferenceBad}
	ErrSelfReference     = &ReferenceError{Kind: ReferenceSelf}
	ErrCircularReference = &ReferenceError{Kind: ReferenceCircular}
)
