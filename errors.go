package arangox

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common failures.
var (
	// ErrSchema is matched by every SchemaError.
	ErrSchema = errors.New("arangox: schema error")

	// ErrInvalidArgument is matched by every InvalidArgumentError.
	ErrInvalidArgument = errors.New("arangox: invalid argument")

	// ErrNotFound is returned when a requested graph type, collection or
	// document does not exist.
	ErrNotFound = errors.New("arangox: not found")

	// ErrServer is matched by every error carrying a rejected server response
	// (CreationError, DeletionError and TraversalError).
	ErrServer = errors.New("arangox: server rejected operation")
)

// SchemaError represents a structural problem with a graph declaration:
// a declared type without edge definitions, a descriptor without a key, a
// declared edge collection the database does not know, or a mutation
// addressed to an edge collection outside the reconciled definitions.
type SchemaError struct {
	Graph string // Graph or graph type name, if known
	msg   string
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	if e.Graph != "" {
		return fmt.Sprintf("arangox: graph %q: %s", e.Graph, e.msg)
	}
	return fmt.Sprintf("arangox: %s", e.msg)
}

// Is reports whether the target error matches SchemaError.
// This allows errors.Is(schemaErr, ErrSchema) to return true.
func (e *SchemaError) Is(err error) bool {
	return err == ErrSchema
}

// NewSchemaError returns a new SchemaError for the given graph.
func NewSchemaError(graph, format string, args ...any) *SchemaError {
	return &SchemaError{Graph: graph, msg: fmt.Sprintf(format, args...)}
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e) || errors.Is(err, ErrSchema)
}

// InvalidArgumentError represents a call rejected before any request was
// built, such as an empty edge endpoint or contradictory traversal options.
type InvalidArgumentError struct {
	Arg string // Argument name
	msg string
}

// Error returns the error string.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("arangox: invalid argument %q: %s", e.Arg, e.msg)
}

// Is reports whether the target error matches InvalidArgumentError.
func (e *InvalidArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// NewInvalidArgumentError returns a new InvalidArgumentError.
func NewInvalidArgumentError(arg, msg string) *InvalidArgumentError {
	return &InvalidArgumentError{Arg: arg, msg: msg}
}

// IsInvalidArgument returns true if the error is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidArgument)
}

// NotFoundError represents a lookup of something that was never registered
// or does not exist on the server.
type NotFoundError struct {
	label string
	name  string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("arangox: %s %q not found", e.label, e.name)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the kind of thing that was looked up.
func (e *NotFoundError) Label() string {
	return e.label
}

// Name returns the name that was looked up.
func (e *NotFoundError) Name() string {
	return e.name
}

// NewNotFoundError returns a new NotFoundError.
func NewNotFoundError(label, name string) *NotFoundError {
	return &NotFoundError{label: label, name: name}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ServerError holds the parts of a rejected server response shared by
// CreationError, DeletionError and TraversalError.
type ServerError struct {
	Op      string         // Operation, e.g. "create vertex"
	Message string         // Server error message, if any
	Status  int            // HTTP status code
	Payload map[string]any // Raw response envelope
}

func (e *ServerError) format(kind string) string {
	if e.Message != "" {
		return fmt.Sprintf("arangox: %s: %s (status %d): %s", kind, e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("arangox: %s: %s (status %d)", kind, e.Op, e.Status)
}

// CreationError is returned when the server refuses to create a vertex,
// an edge, a document or a graph.
type CreationError struct {
	ServerError
}

// Error returns the error string.
func (e *CreationError) Error() string { return e.format("creation failed") }

// Is reports whether the target error matches ErrServer.
func (e *CreationError) Is(err error) bool { return err == ErrServer }

// NewCreationError returns a new CreationError.
func NewCreationError(op, message string, status int, payload map[string]any) *CreationError {
	return &CreationError{ServerError{Op: op, Message: message, Status: status, Payload: payload}}
}

// IsCreationError returns true if the error is a CreationError.
func IsCreationError(err error) bool {
	if err == nil {
		return false
	}
	var e *CreationError
	return errors.As(err, &e)
}

// DeletionError is returned when the server refuses to delete a vertex,
// an edge or a graph.
type DeletionError struct {
	ServerError
}

// Error returns the error string.
func (e *DeletionError) Error() string { return e.format("deletion failed") }

// Is reports whether the target error matches ErrServer.
func (e *DeletionError) Is(err error) bool { return err == ErrServer }

// NewDeletionError returns a new DeletionError.
func NewDeletionError(op, message string, status int, payload map[string]any) *DeletionError {
	return &DeletionError{ServerError{Op: op, Message: message, Status: status, Payload: payload}}
}

// IsDeletionError returns true if the error is a DeletionError.
func IsDeletionError(err error) bool {
	if err == nil {
		return false
	}
	var e *DeletionError
	return errors.As(err, &e)
}

// TraversalError is returned when the server rejects a traversal request.
type TraversalError struct {
	ServerError
}

// Error returns the error string.
func (e *TraversalError) Error() string { return e.format("traversal failed") }

// Is reports whether the target error matches ErrServer.
func (e *TraversalError) Is(err error) bool { return err == ErrServer }

// NewTraversalError returns a new TraversalError.
func NewTraversalError(op, message string, status int, payload map[string]any) *TraversalError {
	return &TraversalError{ServerError{Op: op, Message: message, Status: status, Payload: payload}}
}

// IsTraversalError returns true if the error is a TraversalError.
func IsTraversalError(err error) bool {
	if err == nil {
		return false
	}
	var e *TraversalError
	return errors.As(err, &e)
}

// ValidationError represents a validation error for a document field.
type ValidationError struct {
	Name string // Field name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("arangox: validator failed for field %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given field.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// AggregateError represents multiple validation failures collected while
// checking a single document.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "arangox: multiple errors:"
	for i, err := range e.Errors {
		msg += fmt.Sprintf("\n  [%d] %v", i+1, err)
	}
	return msg
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns an AggregateError if there are errors, the error
// itself if there is exactly one, and nil otherwise.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
