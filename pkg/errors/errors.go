package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Profile graph errors
	ErrUnknownProfile       ErrorCode = "UNKNOWN_PROFILE"
	ErrUnknownParentProfile ErrorCode = "UNKNOWN_PARENT_PROFILE"
	ErrSelfExtendingProfile ErrorCode = "SELF_EXTENDING_PROFILE"
	ErrInheritanceCycle     ErrorCode = "INHERITANCE_CYCLE"
	ErrDuplicateProfiles    ErrorCode = "DUPLICATE_PROFILES"
	ErrNoActiveProfile      ErrorCode = "NO_ACTIVE_PROFILE"
	ErrProfileExists        ErrorCode = "PROFILE_EXISTS"

	// Effective profile errors
	ErrProfileDirectoryMissing ErrorCode = "PROFILE_DIRECTORY_MISSING"
	ErrConflictingVariant      ErrorCode = "CONFLICTING_VARIANT"
	ErrExtensionMismatch       ErrorCode = "EXTENSION_MISMATCH"
	ErrMalformedConfigFile     ErrorCode = "MALFORMED_CONFIG_FILE"
	ErrMaterialize             ErrorCode = "MATERIALIZE"

	// Activation errors
	ErrActivationFailed ErrorCode = "ACTIVATION_FAILED"

	// Registry and repository errors
	ErrRegistryRead       ErrorCode = "REGISTRY_READ"
	ErrRegistryWrite      ErrorCode = "REGISTRY_WRITE"
	ErrRepositoryExists   ErrorCode = "REPOSITORY_EXISTS"
	ErrRepositoryNotFound ErrorCode = "REPOSITORY_NOT_FOUND"
	ErrMetadataRead       ErrorCode = "METADATA_READ"
	ErrMetadataWrite      ErrorCode = "METADATA_WRITE"

	// Version control errors
	ErrGit             ErrorCode = "GIT"
	ErrRefreshConflict ErrorCode = "REFRESH_CONFLICT"
)

// OcpError represents a structured error with code and details
type OcpError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error

	// Auxiliary holds secondary failures that happened while handling
	// Wrapped, e.g. rollback steps that could not be undone.
	Auxiliary []error
}

// Error implements the error interface
func (e *OcpError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	if len(e.Auxiliary) > 0 {
		b.WriteString(fmt.Sprintf(" (%d additional failure(s): ", len(e.Auxiliary)))
		for i, aux := range e.Auxiliary {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(aux.Error())
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes the wrapped cause followed by any auxiliary failures so
// errors.Is and errors.As see all of them.
func (e *OcpError) Unwrap() []error {
	errs := make([]error, 0, 1+len(e.Auxiliary))
	if e.Wrapped != nil {
		errs = append(errs, e.Wrapped)
	}
	return append(errs, e.Auxiliary...)
}

// Is implements errors.Is interface
func (e *OcpError) Is(target error) bool {
	var targetErr *OcpError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OcpError with the given code and message
func New(code ErrorCode, message string) *OcpError {
	return &OcpError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OcpError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OcpError {
	return &OcpError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OcpError
func Wrap(err error, code ErrorCode, message string) *OcpError {
	if err == nil {
		return nil
	}
	return &OcpError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OcpError {
	if err == nil {
		return nil
	}
	return &OcpError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OcpError) WithDetail(key string, value interface{}) *OcpError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *OcpError) WithDetails(details map[string]interface{}) *OcpError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithAuxiliary attaches secondary failures to the error
func (e *OcpError) WithAuxiliary(errs ...error) *OcpError {
	for _, err := range errs {
		if err != nil {
			e.Auxiliary = append(e.Auxiliary, err)
		}
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ocpErr *OcpError
	if errors.As(err, &ocpErr) {
		return ocpErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OcpError
func GetErrorCode(err error) ErrorCode {
	var ocpErr *OcpError
	if errors.As(err, &ocpErr) {
		return ocpErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OcpError
func GetErrorDetails(err error) map[string]interface{} {
	var ocpErr *OcpError
	if errors.As(err, &ocpErr) {
		return ocpErr.Details
	}
	return nil
}

// GetAuxiliary returns the auxiliary failures attached to an error
func GetAuxiliary(err error) []error {
	var ocpErr *OcpError
	if errors.As(err, &ocpErr) {
		return ocpErr.Auxiliary
	}
	return nil
}
