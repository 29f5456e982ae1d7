package domain

import (
	"testing"
	"time"
)

func TestAuditAction_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		action AuditAction
		want   bool
	}{
		{"ActionCreate is valid", ActionCreate, true},
		{"ActionStatus is valid", ActionStatus, true},
		{"ActionApplySuggested is valid", ActionApplySuggested, true},
		{"ActionConfirm is valid", ActionConfirm, true},
		{"empty string is invalid", AuditAction(""), false},
		{"random string is invalid", AuditAction("random"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.IsValid(); got != tt.want {
				t.Errorf("AuditAction.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewAuditEntry(t *testing.T) {
	before := time.Now().UTC()
	entry := NewAuditEntry(EntityTask, "tk-1", ActionStatus, "alice").
		WithChange("status", "pending", "in_progress")
	after := time.Now().UTC()

	if entry.EntityType != EntityTask || entry.EntityID != "tk-1" {
		t.Errorf("unexpected entity: %s/%s", entry.EntityType, entry.EntityID)
	}
	if entry.ChangedBy != "alice" {
		t.Errorf("ChangedBy = %v, want alice", entry.ChangedBy)
	}
	if entry.ChangedAt.Before(before) || entry.ChangedAt.After(after) {
		t.Errorf("ChangedAt %v not within [%v, %v]", entry.ChangedAt, before, after)
	}
	if entry.Field == nil || *entry.Field != "status" {
		t.Errorf("Field = %v, want status", entry.Field)
	}
	if entry.OldValue == nil || *entry.OldValue != "pending" {
		t.Errorf("OldValue = %v, want pending", entry.OldValue)
	}
	if entry.NewValue == nil || *entry.NewValue != "in_progress" {
		t.Errorf("NewValue = %v, want in_progress", entry.NewValue)
	}
}
