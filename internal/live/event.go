// Package live pushes change notifications to dashboard clients over WebSocket.
package live

// EventType names a live event.
type EventType string

const (
	TypeTaskGroupUpdated     EventType = "TaskGroupUpdated"
	TypeNotificationReceived EventType = "NotificationReceived"
	TypeInventoryUpdated     EventType = "InventoryUpdated"
)

// Event is the payload sent to subscribers.
type Event struct {
	Type        EventType `json:"type"`
	TaskGroupID string    `json:"taskGroupId,omitempty"`
	Message     string    `json:"message,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
}

// TaskGroupUpdated announces that a task group or one of its tasks changed.
func TaskGroupUpdated(groupID string) Event {
	return Event{Type: TypeTaskGroupUpdated, TaskGroupID: groupID}
}

// Notification is a free-text message, optionally limited to some roles.
func Notification(message string, roles ...string) Event {
	return Event{Type: TypeNotificationReceived, Message: message, Roles: roles}
}

// InventoryUpdated announces a spare-part change.
func InventoryUpdated() Event {
	return Event{Type: TypeInventoryUpdated}
}

// reaches reports whether the event is addressed to a subscriber with role.
// Events without roles reach everyone.
func (e Event) reaches(role string) bool {
	if len(e.Roles) == 0 {
		return true
	}
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}
