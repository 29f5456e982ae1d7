package fixdesk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// NewTask describes one task of a task group being created.
type NewTask struct {
	Name         string      `json:"name"`
	Description  *string     `json:"description,omitempty"`
	Type         TaskType    `json:"type"`
	Status       *TaskStatus `json:"status,omitempty"`
	Priority     *int        `json:"priority,omitempty"`
	AssigneeName *string     `json:"assignee_name,omitempty"`
	OrderIndex   *int        `json:"order_index,omitempty"`
	ExpectedTime *time.Time  `json:"expected_time,omitempty"`
}

// NewTaskGroup is the body of CreateTaskGroup.
type NewTaskGroup struct {
	GroupName string    `json:"group_name"`
	Type      GroupType `json:"type"`
	Tasks     []NewTask `json:"tasks"`
}

// TaskGroupFilter narrows ListTaskGroups.
type TaskGroupFilter struct {
	ListOptions
	Type GroupType
}

// ListTaskGroups returns a page of task groups, newest first.
func (c *Client) ListTaskGroups(ctx context.Context, filter TaskGroupFilter) (*TaskGroupList, error) {
	q := queryValues{}
	filter.apply(q)
	q.set("type", string(filter.Type))

	var page paginated[*TaskGroup]
	if err := c.do(ctx, http.MethodGet, q.encode(c.sitePath("/task-groups")), nil, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &TaskGroupList{Groups: page.Data, Pagination: page.Pagination}, nil
}

// GetTaskGroup retrieves a task group with its tasks.
func (c *Client) GetTaskGroup(ctx context.Context, id string) (*TaskGroup, error) {
	var group TaskGroup
	if err := c.do(ctx, http.MethodGet, c.sitePath("/task-groups/"+url.PathEscape(id)), nil, http.StatusOK, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateTaskGroup creates a task group and its tasks in one call.
func (c *Client) CreateTaskGroup(ctx context.Context, in NewTaskGroup) (*TaskGroup, error) {
	if in.Tasks == nil {
		in.Tasks = []NewTask{}
	}
	var group TaskGroup
	if err := c.do(ctx, http.MethodPost, c.sitePath("/task-groups"), in, http.StatusCreated, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteTaskGroup deletes a task group and all of its tasks.
func (c *Client) DeleteTaskGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.sitePath("/task-groups/"+url.PathEscape(id)), nil, http.StatusNoContent, nil)
}

// ApplySuggested moves every suggested task of the group to pending and
// returns the updated group.
func (c *Client) ApplySuggested(ctx context.Context, groupID string) (*TaskGroup, error) {
	var group TaskGroup
	path := c.sitePath("/task-groups/" + url.PathEscape(groupID) + "/suggested/apply")
	if err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK, &group); err != nil {
		return nil, err
	}
	return &group, nil
}
