package fixdesk

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for connection-related issues.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// ErrorCode represents a domain error code from the API.
type ErrorCode string

const (
	ErrCodeTaskNotFound      ErrorCode = "TASK_NOT_FOUND"
	ErrCodeTaskGroupNotFound ErrorCode = "TASK_GROUP_NOT_FOUND"
	ErrCodeDetailNotFound    ErrorCode = "DETAIL_NOT_FOUND"
	ErrCodeDeviceNotFound    ErrorCode = "DEVICE_NOT_FOUND"
	ErrCodeSparePartNotFound ErrorCode = "SPARE_PART_NOT_FOUND"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeShiftNotFound     ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeHolidayNotFound   ErrorCode = "HOLIDAY_NOT_FOUND"
	ErrCodeHandoffNotFound   ErrorCode = "HANDOFF_NOT_FOUND"
	ErrCodeSiteNotFound      ErrorCode = "SITE_NOT_FOUND"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

var notFoundCodes = map[ErrorCode]bool{
	ErrCodeTaskNotFound:      true,
	ErrCodeTaskGroupNotFound: true,
	ErrCodeDetailNotFound:    true,
	ErrCodeDeviceNotFound:    true,
	ErrCodeSparePartNotFound: true,
	ErrCodeUserNotFound:      true,
	ErrCodeShiftNotFound:     true,
	ErrCodeHolidayNotFound:   true,
	ErrCodeSiteNotFound:      true,
}

// Error represents an error response from the Fixdesk API.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Context    map[string]interface{}
	// Fields holds per-field validation messages keyed by JSON field name.
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := e.Message
	for _, k := range keys {
		msg += fmt.Sprintf("; %s: %s", k, e.Fields[k])
	}
	return msg
}

// apiErrorResponse wraps the error in the API response format.
type apiErrorResponse struct {
	Error apiError `json:"error"`
}

// apiError is the JSON structure for an API error.
type apiError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
	Fields  map[string]string      `json:"fields,omitempty"`
}

// IsNotFound returns true for any of the not-found error codes.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return notFoundCodes[e.Code]
	}
	return false
}

// IsDetailNotFound returns true if the task has no stored detail of the
// requested kind.
func IsDetailNotFound(err error) bool {
	return hasErrorCode(err, ErrCodeDetailNotFound)
}

// IsInvalidTransition returns true if the error indicates an invalid status transition.
func IsInvalidTransition(err error) bool {
	return hasErrorCode(err, ErrCodeInvalidTransition)
}

// IsValidationFailed returns true if the error indicates validation failed.
func IsValidationFailed(err error) bool {
	return hasErrorCode(err, ErrCodeValidationFailed)
}

// IsConflict returns true if the error indicates a uniqueness conflict.
func IsConflict(err error) bool {
	return hasErrorCode(err, ErrCodeConflict)
}

// IsHandoffNotFound returns true if there was no live hand-off to consume.
func IsHandoffNotFound(err error) bool {
	return hasErrorCode(err, ErrCodeHandoffNotFound)
}

// IsServerNotRunning returns true if the error indicates the server is not running.
func IsServerNotRunning(err error) bool {
	return errors.Is(err, ErrServerNotRunning)
}

// FieldErrors returns the per-field validation messages carried by err, or
// nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeValidationFailed {
		return e.Fields
	}
	return nil
}

// hasErrorCode checks if the error has the specified error code.
func hasErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
