package domain

import (
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: "Test message",
		Context: map[string]interface{}{"key": "value"},
	}

	if err.Error() != "Test message" {
		t.Errorf("DomainError.Error() = %v, want %v", err.Error(), "Test message")
	}
}

func TestNotFoundErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		code ErrorCode
		id   string
	}{
		{"task", NewTaskNotFoundError("tk-1"), ErrCodeTaskNotFound, "tk-1"},
		{"task group", NewTaskGroupNotFoundError("tg-1"), ErrCodeTaskGroupNotFound, "tg-1"},
		{"device", NewDeviceNotFoundError("dv-1"), ErrCodeDeviceNotFound, "dv-1"},
		{"spare part", NewSparePartNotFoundError("sp-1"), ErrCodeSparePartNotFound, "sp-1"},
		{"user", NewUserNotFoundError("us-1"), ErrCodeUserNotFound, "us-1"},
		{"shift", NewShiftNotFoundError("sh-1"), ErrCodeShiftNotFound, "sh-1"},
		{"holiday", NewHolidayNotFoundError("hd-1"), ErrCodeHolidayNotFound, "hd-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if !strings.Contains(tt.err.Message, tt.id) {
				t.Errorf("Message should contain id, got: %v", tt.err.Message)
			}
			if tt.err.Context["id"] != tt.id {
				t.Errorf("Context[id] = %v, want %v", tt.err.Context["id"], tt.id)
			}
		})
	}
}

func TestNewDetailNotFoundError_CarriesKind(t *testing.T) {
	err := NewDetailNotFoundError(DetailWarranty, "tk-9")
	if err.Code != ErrCodeDetailNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDetailNotFound)
	}
	if err.Context["kind"] != "warranty" {
		t.Errorf("Context[kind] = %v, want warranty", err.Context["kind"])
	}
}

func TestNewInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError(StatusCompleted, StatusPending)

	if err.Code != ErrCodeInvalidTransition {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTransition)
	}
	if err.Context["from"] != "completed" || err.Context["to"] != "pending" {
		t.Errorf("unexpected context: %v", err.Context)
	}
}

func TestNewFieldValidationError(t *testing.T) {
	err := NewFieldValidationError(map[string]string{"phone": "invalid phone number"})

	if err.Code != ErrCodeValidationFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidationFailed)
	}
	if err.Fields["phone"] != "invalid phone number" {
		t.Errorf("Fields[phone] = %q", err.Fields["phone"])
	}
	details, ok := err.Context["details"].([]string)
	if !ok || len(details) != 1 || details[0] != "phone: invalid phone number" {
		t.Errorf("unexpected details: %v", err.Context["details"])
	}
}

func TestNewInternalError_HidesCause(t *testing.T) {
	err := NewInternalError(nil)
	if err.Message != "An internal error occurred" {
		t.Errorf("Message = %q", err.Message)
	}
}
