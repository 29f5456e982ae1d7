package fixdesk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) detailPath(kind, taskID string) string {
	return c.sitePath("/" + kind + "-tasks/" + url.PathEscape(taskID))
}

// GetInstallationDetail returns the installation detail of a task.
func (c *Client) GetInstallationDetail(ctx context.Context, taskID string) (*InstallTaskDetail, error) {
	var d InstallTaskDetail
	if err := c.do(ctx, http.MethodGet, c.detailPath("installation", taskID), nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// PutInstallationDetail stores the installation detail of a task.
func (c *Client) PutInstallationDetail(ctx context.Context, d *InstallTaskDetail) (*InstallTaskDetail, error) {
	var saved InstallTaskDetail
	if err := c.do(ctx, http.MethodPut, c.detailPath("installation", d.TaskID), d, http.StatusOK, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetWarrantyDetail returns the warranty detail of a task.
func (c *Client) GetWarrantyDetail(ctx context.Context, taskID string) (*WarrantyTaskDetail, error) {
	var d WarrantyTaskDetail
	if err := c.do(ctx, http.MethodGet, c.detailPath("warranty", taskID), nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// PutWarrantyDetail stores the warranty detail of a task.
func (c *Client) PutWarrantyDetail(ctx context.Context, d *WarrantyTaskDetail) (*WarrantyTaskDetail, error) {
	var saved WarrantyTaskDetail
	if err := c.do(ctx, http.MethodPut, c.detailPath("warranty", d.TaskID), d, http.StatusOK, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ConfirmWarranty marks the warranty claim of a task as confirmed.
func (c *Client) ConfirmWarranty(ctx context.Context, taskID string) (*WarrantyTaskDetail, error) {
	var d WarrantyTaskDetail
	if err := c.do(ctx, http.MethodPost, c.detailPath("warranty", taskID)+"/confirm", nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetRepairDetail returns the repair detail of a task.
func (c *Client) GetRepairDetail(ctx context.Context, taskID string) (*RepairTaskDetail, error) {
	var d RepairTaskDetail
	if err := c.do(ctx, http.MethodGet, c.detailPath("repair", taskID), nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// PutRepairDetail stores the repair detail of a task.
func (c *Client) PutRepairDetail(ctx context.Context, d *RepairTaskDetail) (*RepairTaskDetail, error) {
	if d.Parts == nil {
		d.Parts = []RepairPart{}
	}
	var saved RepairTaskDetail
	if err := c.do(ctx, http.MethodPut, c.detailPath("repair", d.TaskID), d, http.StatusOK, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
