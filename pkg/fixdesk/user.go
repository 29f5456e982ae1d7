package fixdesk

import (
	"context"
	"net/http"
	"net/url"
)

// NewUser is the body of CreateUser.
type NewUser struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	ListOptions
	Role Role
}

// ListUsers returns a page of users.
func (c *Client) ListUsers(ctx context.Context, filter UserFilter) (*UserList, error) {
	q := queryValues{}
	filter.apply(q)
	q.set("role", string(filter.Role))

	var page paginated[*User]
	if err := c.do(ctx, http.MethodGet, q.encode(c.sitePath("/users")), nil, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &UserList{Users: page.Data, Pagination: page.Pagination}, nil
}

// GetUser retrieves a user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, c.sitePath("/users/"+url.PathEscape(id)), nil, http.StatusOK, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates a user. Validation failures carry per-field messages,
// see FieldErrors.
func (c *Client) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, c.sitePath("/users"), in, http.StatusCreated, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
