package domain

import "time"

// AuditAction represents the type of action recorded in an audit entry.
type AuditAction string

const (
	ActionCreate         AuditAction = "create"
	ActionUpdate         AuditAction = "update"
	ActionDelete         AuditAction = "delete"
	ActionStatus         AuditAction = "status"
	ActionApplySuggested AuditAction = "apply_suggested"
	ActionConfirm        AuditAction = "confirm"
	ActionReplace        AuditAction = "replace"
	ActionImport         AuditAction = "import"
)

// ValidAuditActions contains all valid audit action values.
var ValidAuditActions = []AuditAction{
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionStatus,
	ActionApplySuggested,
	ActionConfirm,
	ActionReplace,
	ActionImport,
}

// IsValid checks if the action is a valid audit action.
func (a AuditAction) IsValid() bool {
	for _, v := range ValidAuditActions {
		if a == v {
			return true
		}
	}
	return false
}

// Entity kinds recorded in the audit log.
const (
	EntityTask      = "task"
	EntityTaskGroup = "task_group"
	EntityDevice    = "device"
	EntitySparePart = "spare_part"
	EntityUser      = "user"
)

// AuditEntry represents a single change in the audit log.
type AuditEntry struct {
	ID         int64       `json:"id"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	Action     AuditAction `json:"action"`
	Field      *string     `json:"field,omitempty"`
	OldValue   *string     `json:"old_value,omitempty"`
	NewValue   *string     `json:"new_value,omitempty"`
	ChangedAt  time.Time   `json:"changed_at"`
	ChangedBy  string      `json:"changed_by"`
}

// NewAuditEntry creates a new audit entry with the given parameters.
func NewAuditEntry(entityType, entityID string, action AuditAction, changedBy string) AuditEntry {
	return AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ChangedAt:  time.Now().UTC(),
		ChangedBy:  changedBy,
	}
}

// WithField sets the field name for the audit entry.
func (e AuditEntry) WithField(field string) AuditEntry {
	e.Field = &field
	return e
}

// WithOldValue sets the old value for the audit entry.
func (e AuditEntry) WithOldValue(oldValue string) AuditEntry {
	e.OldValue = &oldValue
	return e
}

// WithNewValue sets the new value for the audit entry.
func (e AuditEntry) WithNewValue(newValue string) AuditEntry {
	e.NewValue = &newValue
	return e
}

// WithChange sets field, old and new value at once.
func (e AuditEntry) WithChange(field, oldValue, newValue string) AuditEntry {
	return e.WithField(field).WithOldValue(oldValue).WithNewValue(newValue)
}
