package request

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// CreateTaskRequest describes one task inside a CreateTaskGroupRequest.
type CreateTaskRequest struct {
	Name         string             `json:"name"`
	Description  *string            `json:"description,omitempty"`
	Type         string             `json:"type"`
	Status       *domain.TaskStatus `json:"status,omitempty"`
	Priority     *int               `json:"priority,omitempty"`
	AssigneeName *string            `json:"assignee_name,omitempty"`
	OrderIndex   *int               `json:"order_index,omitempty"`
	ExpectedTime *time.Time         `json:"expected_time,omitempty"`
}

// CreateTaskGroupRequest represents a request to create a task group.
type CreateTaskGroupRequest struct {
	GroupName string              `json:"group_name"`
	Type      domain.GroupType    `json:"type"`
	Tasks     []CreateTaskRequest `json:"tasks"`
}

// Validate validates the create task group request.
func (r *CreateTaskGroupRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.GroupName) == "" {
		errors = append(errors, "group_name is required")
	}
	if !r.Type.IsValid() {
		errors = append(errors, fmt.Sprintf("type %q is not a known group type", r.Type))
	}

	for i, t := range r.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			errors = append(errors, fmt.Sprintf("tasks[%d].name is required", i))
		}
		if _, ok := domain.ParseTaskType(t.Type); !ok {
			errors = append(errors, fmt.Sprintf("tasks[%d].type %q is not a known task type", i, t.Type))
		}
		if t.Status != nil && !t.Status.IsValid() {
			errors = append(errors, fmt.Sprintf("tasks[%d].status %q is not valid", i, *t.Status))
		}
		if t.Priority != nil && !domain.ValidPriority(*t.Priority) {
			errors = append(errors, fmt.Sprintf("tasks[%d].priority must be between 0 and 4", i))
		}
	}

	return errors
}

// UpdateTaskRequest represents a request to update a task.
type UpdateTaskRequest struct {
	Name         *string            `json:"name,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Status       *domain.TaskStatus `json:"status,omitempty"`
	Priority     *int               `json:"priority,omitempty"`
	AssigneeName *string            `json:"assignee_name,omitempty"`
	OrderIndex   *int               `json:"order_index,omitempty"`
	StartTime    *time.Time         `json:"start_time,omitempty"`
	ExpectedTime *time.Time         `json:"expected_time,omitempty"`
	EndTime      *time.Time         `json:"end_time,omitempty"`
}

// Validate validates the update task request.
func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors = append(errors, "name cannot be empty")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errors = append(errors, fmt.Sprintf("status %q is not valid", *r.Status))
	}
	if r.Priority != nil && !domain.ValidPriority(*r.Priority) {
		errors = append(errors, "priority must be between 0 and 4")
	}
	if r.StartTime != nil && r.EndTime != nil && r.EndTime.Before(*r.StartTime) {
		errors = append(errors, "end_time cannot be before start_time")
	}

	return errors
}

// ParseGroupType extracts the group type filter from query parameters.
func ParseGroupType(r *http.Request) *domain.GroupType {
	s := r.URL.Query().Get("type")
	if s == "" {
		return nil
	}

	groupType := domain.GroupType(s)
	if !groupType.IsValid() {
		return nil
	}
	return &groupType
}
