package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Control file errors
	ErrControlNotFound ErrorCode = "CONTROL_NOT_FOUND"
	ErrControlParse    ErrorCode = "CONTROL_PARSE"
	ErrImportPathUnset ErrorCode = "IMPORT_PATH_UNSET"

	// Staging errors
	ErrStageScan    ErrorCode = "STAGE_SCAN"
	ErrStagePlan    ErrorCode = "STAGE_PLAN"
	ErrStageExecute ErrorCode = "STAGE_EXECUTE"
	ErrOverlayLink  ErrorCode = "OVERLAY_LINK"

	// Target resolution errors
	ErrTargetList    ErrorCode = "TARGET_LIST"
	ErrTargetPattern ErrorCode = "TARGET_PATTERN"
	ErrExcludeRegex  ErrorCode = "EXCLUDE_REGEX"

	// Toolchain errors
	ErrToolRun    ErrorCode = "TOOL_RUN"
	ErrToolOutput ErrorCode = "TOOL_OUTPUT"

	// Provenance errors
	ErrDepsList    ErrorCode = "DEPS_LIST"
	ErrPkgOwner    ErrorCode = "PKG_OWNER"
	ErrPkgSource   ErrorCode = "PKG_SOURCE"
	ErrSubstvarsIO ErrorCode = "SUBSTVARS_IO"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkExists ErrorCode = "SYMLINK_EXISTS"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// GostageError represents a structured error with code and details
type GostageError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *GostageError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *GostageError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *GostageError) Is(target error) bool {
	var targetErr *GostageError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new GostageError with the given code and message
func New(code ErrorCode, message string) *GostageError {
	return &GostageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new GostageError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GostageError {
	return &GostageError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a GostageError
func Wrap(err error, code ErrorCode, message string) *GostageError {
	if err == nil {
		return nil
	}
	return &GostageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *GostageError {
	if err == nil {
		return nil
	}
	return &GostageError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *GostageError) WithDetail(key string, value interface{}) *GostageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *GostageError) WithDetails(details map[string]interface{}) *GostageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var gerr *GostageError
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a GostageError
func GetErrorCode(err error) ErrorCode {
	var gerr *GostageError
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a GostageError
func GetErrorDetails(err error) map[string]interface{} {
	var gerr *GostageError
	if errors.As(err, &gerr) {
		return gerr.Details
	}
	return nil
}
