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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrHostProbe   ErrorCode = "HOST_PROBE"

	// Menu errors
	ErrMenuParse      ErrorCode = "MENU_PARSE"
	ErrDuplicateEntry ErrorCode = "DUPLICATE_ENTRY"

	// Icon errors
	ErrIconNotFound ErrorCode = "ICON_NOT_FOUND"
	ErrIconConvert  ErrorCode = "ICON_CONVERT"

	// Shortcut errors
	ErrMalformedPath   ErrorCode = "MALFORMED_PATH"
	ErrShortcutPersist ErrorCode = "SHORTCUT_PERSIST"
	ErrLauncherWrite   ErrorCode = "LAUNCHER_WRITE"
	ErrPathTranslate   ErrorCode = "PATH_TRANSLATE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// fatalCodes are the codes that abort a whole run
var fatalCodes = map[ErrorCode]bool{
	ErrMenuParse:   true,
	ErrDirCreate:   true,
	ErrPermission:  true,
	ErrConfigLoad:  true,
	ErrConfigValid: true,
}

// ToolbarError represents a structured error with code and details
type ToolbarError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ToolbarError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ToolbarError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ToolbarError) Is(target error) bool {
	var targetErr *ToolbarError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ToolbarError with the given code and message
func New(code ErrorCode, message string) *ToolbarError {
	return &ToolbarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ToolbarError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ToolbarError {
	return &ToolbarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ToolbarError
func Wrap(err error, code ErrorCode, message string) *ToolbarError {
	if err == nil {
		return nil
	}
	return &ToolbarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ToolbarError {
	if err == nil {
		return nil
	}
	return &ToolbarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ToolbarError) WithDetail(key string, value interface{}) *ToolbarError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code.
// Joined errors match when any of their members carries the code.
func IsErrorCode(err error, code ErrorCode) bool {
	var toolbarErr *ToolbarError
	if errors.As(err, &toolbarErr) {
		if toolbarErr.Code == code {
			return true
		}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if IsErrorCode(e, code) {
				return true
			}
		}
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ToolbarError
func GetErrorCode(err error) ErrorCode {
	var toolbarErr *ToolbarError
	if errors.As(err, &toolbarErr) {
		return toolbarErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ToolbarError
func GetErrorDetails(err error) map[string]interface{} {
	var toolbarErr *ToolbarError
	if errors.As(err, &toolbarErr) {
		return toolbarErr.Details
	}
	return nil
}

// IsFatal reports whether err must abort the run rather than count against a single entry.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return fatalCodes[GetErrorCode(err)]
}
