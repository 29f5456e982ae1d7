package fixdesk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// UpdateTaskOption configures an UpdateTask call.
type UpdateTaskOption func(*updateTaskBody)

// updateTaskBody is the PATCH body; nil fields are left unchanged.
type updateTaskBody struct {
	Name         *string     `json:"name,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Status       *TaskStatus `json:"status,omitempty"`
	Priority     *int        `json:"priority,omitempty"`
	AssigneeName *string     `json:"assignee_name,omitempty"`
	OrderIndex   *int        `json:"order_index,omitempty"`
	StartTime    *time.Time  `json:"start_time,omitempty"`
	ExpectedTime *time.Time  `json:"expected_time,omitempty"`
	EndTime      *time.Time  `json:"end_time,omitempty"`
}

// WithName sets the task name.
func WithName(name string) UpdateTaskOption {
	return func(b *updateTaskBody) { b.Name = &name }
}

// WithDescription sets the task description.
func WithDescription(desc string) UpdateTaskOption {
	return func(b *updateTaskBody) { b.Description = &desc }
}

// WithStatus moves the task to status, subject to the transition rules.
func WithStatus(status TaskStatus) UpdateTaskOption {
	return func(b *updateTaskBody) { b.Status = &status }
}

// WithPriority sets the task priority.
func WithPriority(priority int) UpdateTaskOption {
	return func(b *updateTaskBody) { b.Priority = &priority }
}

// WithAssignee sets the assignee name.
func WithAssignee(name string) UpdateTaskOption {
	return func(b *updateTaskBody) { b.AssigneeName = &name }
}

// WithOrderIndex moves the task within its group.
func WithOrderIndex(idx int) UpdateTaskOption {
	return func(b *updateTaskBody) { b.OrderIndex = &idx }
}

// WithSchedule sets the start, expected and end times. Nil values are left unchanged.
func WithSchedule(start, expected, end *time.Time) UpdateTaskOption {
	return func(b *updateTaskBody) {
		b.StartTime = start
		b.ExpectedTime = expected
		b.EndTime = end
	}
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, c.sitePath("/tasks/"+url.PathEscape(id)), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies the given changes to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, opts ...UpdateTaskOption) (*Task, error) {
	var body updateTaskBody
	for _, opt := range opts {
		opt(&body)
	}
	var task Task
	if err := c.do(ctx, http.MethodPatch, c.sitePath("/tasks/"+url.PathEscape(id)), body, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTaskHistory returns the audit trail of a task, oldest first.
func (c *Client) GetTaskHistory(ctx context.Context, id string) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	if err := c.do(ctx, http.MethodGet, c.sitePath("/tasks/"+url.PathEscape(id)+"/history"), nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AuditQuery narrows QueryAuditLog.
type AuditQuery struct {
	ListOptions
	EntityType string
	Action     string
	ChangedBy  string
	Start      *time.Time
	End        *time.Time
}

// QueryAuditLog searches the site's audit log.
func (c *Client) QueryAuditLog(ctx context.Context, query AuditQuery) (*AuditList, error) {
	q := queryValues{}
	query.apply(q)
	q.set("entity", query.EntityType)
	q.set("action", query.Action)
	q.set("actor", query.ChangedBy)
	if query.Start != nil {
		q.set("start", query.Start.UTC().Format(time.RFC3339))
	}
	if query.End != nil {
		q.set("end", query.End.UTC().Format(time.RFC3339))
	}

	var page paginated[*AuditEntry]
	if err := c.do(ctx, http.MethodGet, q.encode(c.sitePath("/audit")), nil, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &AuditList{Entries: page.Data, Pagination: page.Pagination}, nil
}
