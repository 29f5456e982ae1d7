package domain

import "fmt"

// ErrorCode represents a domain error code.
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

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	// Fields holds per-field validation messages keyed by JSON field name.
	Fields map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

func newNotFound(code ErrorCode, kind, id string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf("%s %s not found", kind, id),
		Context: map[string]interface{}{"id": id},
	}
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError(taskID string) *DomainError {
	return newNotFound(ErrCodeTaskNotFound, "Task", taskID)
}

// NewTaskGroupNotFoundError creates a task group not found error.
func NewTaskGroupNotFoundError(groupID string) *DomainError {
	return newNotFound(ErrCodeTaskGroupNotFound, "Task group", groupID)
}

// NewDetailNotFoundError creates an error for a task without the requested detail.
func NewDetailNotFoundError(kind DetailKind, taskID string) *DomainError {
	err := newNotFound(ErrCodeDetailNotFound, "Detail for task", taskID)
	err.Context["kind"] = kind.String()
	return err
}

// NewDeviceNotFoundError creates a device not found error.
func NewDeviceNotFoundError(deviceID string) *DomainError {
	return newNotFound(ErrCodeDeviceNotFound, "Device", deviceID)
}

// NewSparePartNotFoundError creates a spare part not found error.
func NewSparePartNotFoundError(partID string) *DomainError {
	return newNotFound(ErrCodeSparePartNotFound, "Spare part", partID)
}

// NewUserNotFoundError creates a user not found error.
func NewUserNotFoundError(userID string) *DomainError {
	return newNotFound(ErrCodeUserNotFound, "User", userID)
}

// NewShiftNotFoundError creates a shift not found error.
func NewShiftNotFoundError(shiftID string) *DomainError {
	return newNotFound(ErrCodeShiftNotFound, "Shift", shiftID)
}

// NewHolidayNotFoundError creates a holiday not found error.
func NewHolidayNotFoundError(holidayID string) *DomainError {
	return newNotFound(ErrCodeHolidayNotFound, "Holiday", holidayID)
}

// NewHandoffNotFoundError is returned when no live hand-off exists for the actor.
func NewHandoffNotFoundError(actor string) *DomainError {
	return &DomainError{
		Code:    ErrCodeHandoffNotFound,
		Message: "No pending hand-off",
		Context: map[string]interface{}{"actor": actor},
	}
}

// NewSiteNotFoundError creates a site not found error.
func NewSiteNotFoundError(site string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSiteNotFound,
		Message: fmt.Sprintf("Site %s not found", site),
		Context: map[string]interface{}{"site": site},
	}
}

// NewInvalidTransitionError creates an invalid status transition error.
func NewInvalidTransitionError(from, to TaskStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("Cannot transition from %s to %s", from, to),
		Context: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewFieldValidationError creates a validation error carrying per-field messages.
func NewFieldValidationError(fields map[string]string) *DomainError {
	details := make([]string, 0, len(fields))
	for field, msg := range fields {
		details = append(details, field+": "+msg)
	}
	err := NewValidationError(details)
	err.Fields = fields
	return err
}

// NewConflictError creates a conflict error, e.g. for a duplicate username.
func NewConflictError(message string, ctx map[string]interface{}) *DomainError {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: message,
		Context: ctx,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
	}
}
