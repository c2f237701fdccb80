package access

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownCatalog indicates the catalogue name is not registered.
	ErrUnknownCatalog = errors.New("unknown catalog")

	// ErrUnsupportedID indicates the method id is outside the supported range.
	ErrUnsupportedID = errors.New("unsupported method id")

	// ErrPreconditionFailed indicates a resource precondition did not hold.
	ErrPreconditionFailed = errors.New("resource precondition failed")

	// ErrRunnerShutdown indicates the runner has been shut down.
	ErrRunnerShutdown = errors.New("runner shutdown")

	// ErrRateLimited indicates the rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNoResources indicates a catalogue has no configured resources.
	ErrNoResources = errors.New("no resources configured")
)

// ErrorCode provides structured error classification.
type ErrorCode string

const (
	// ErrCodeUnknownCatalog indicates an unregistered catalogue.
	ErrCodeUnknownCatalog ErrorCode = "UNKNOWN_CATALOG"

	// ErrCodeUnsupportedID indicates an out-of-range method id.
	ErrCodeUnsupportedID ErrorCode = "UNSUPPORTED_ID"

	// ErrCodePrecondition indicates a failed resource precondition.
	ErrCodePrecondition ErrorCode = "PRECONDITION_FAILED"

	// ErrCodeAccessFailed indicates the underlying access call failed.
	ErrCodeAccessFailed ErrorCode = "ACCESS_FAILED"

	// ErrCodeRateLimited indicates rate limiting.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"

	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AccessError provides detailed error information for a catalogue invocation.
type AccessError struct {
	// Op is the operation that failed.
	Op string

	// Catalog is the catalogue being invoked.
	Catalog string

	// MethodID is the method id being invoked.
	MethodID int

	// Err is the underlying error.
	Err error

	// Code is the structured error code.
	Code ErrorCode

	// Details provides human-readable details.
	Details string
}

// Error returns the error message.
func (e *AccessError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s[%d]: %s", e.Op, e.Catalog, e.MethodID, e.Details)
	}
	return fmt.Sprintf("%s: %s[%d]: %v", e.Op, e.Catalog, e.MethodID, e.Err)
}

// Unwrap returns the underlying error.
func (e *AccessError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target.
func (e *AccessError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewUnknownCatalogError creates an error for an unregistered catalogue name.
func NewUnknownCatalogError(name string) error {
	return &AccessError{
		Op:      "lookup",
		Catalog: name,
		Err:     ErrUnknownCatalog,
		Code:    ErrCodeUnknownCatalog,
		Details: fmt.Sprintf("catalog %q is not registered", name),
	}
}

// NewUnsupportedIDError creates an error for an out-of-range method id.
func NewUnsupportedIDError(catalog string, id, count int) error {
	return &AccessError{
		Op:       "dispatch",
		Catalog:  catalog,
		MethodID: id,
		Err:      ErrUnsupportedID,
		Code:     ErrCodeUnsupportedID,
		Details:  fmt.Sprintf("id must be in [1, %d]", count),
	}
}

// NewPreconditionError creates an error for a failed resource precondition.
func NewPreconditionError(catalog string, id int, details string) error {
	return &AccessError{
		Op:       "precheck",
		Catalog:  catalog,
		MethodID: id,
		Err:      ErrPreconditionFailed,
		Code:     ErrCodePrecondition,
		Details:  details,
	}
}

// NewAccessFailedError wraps an underlying access failure.
func NewAccessFailedError(catalog string, id int, err error) error {
	return &AccessError{
		Op:       "access",
		Catalog:  catalog,
		MethodID: id,
		Err:      err,
		Code:     ErrCodeAccessFailed,
	}
}

// NewRateLimitError creates a rate limit error.
func NewRateLimitError(catalog string) error {
	return &AccessError{
		Op:      "ratelimit",
		Catalog: catalog,
		Err:     ErrRateLimited,
		Code:    ErrCodeRateLimited,
		Details: "invocation rate limit exceeded",
	}
}
