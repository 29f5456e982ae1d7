package fixdesk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// NewDevice is the body of CreateDevice.
type NewDevice struct {
	Name              string        `json:"name"`
	Code              string        `json:"code"`
	Model             string        `json:"model"`
	Manufacturer      string        `json:"manufacturer"`
	Status            *DeviceStatus `json:"status,omitempty"`
	UnderWarranty     bool          `json:"under_warranty"`
	WarrantyExpiresAt *time.Time    `json:"warranty_expires_at,omitempty"`
	Area              string        `json:"area"`
	Building          string        `json:"building"`
	Floor             string        `json:"floor"`
	Room              string        `json:"room"`
}

// DeviceUpdate is the body of UpdateDevice; nil fields are left unchanged.
type DeviceUpdate struct {
	Name              *string       `json:"name,omitempty"`
	Model             *string       `json:"model,omitempty"`
	Manufacturer      *string       `json:"manufacturer,omitempty"`
	Status            *DeviceStatus `json:"status,omitempty"`
	UnderWarranty     *bool         `json:"under_warranty,omitempty"`
	WarrantyExpiresAt *time.Time    `json:"warranty_expires_at,omitempty"`
	Area              *string       `json:"area,omitempty"`
	Building          *string       `json:"building,omitempty"`
	Floor             *string       `json:"floor,omitempty"`
	Room              *string       `json:"room,omitempty"`
}

// DeviceFilter narrows ListDevices.
type DeviceFilter struct {
	ListOptions
	Status DeviceStatus
}

// ListDevices returns a page of devices.
func (c *Client) ListDevices(ctx context.Context, filter DeviceFilter) (*DeviceList, error) {
	q := queryValues{}
	filter.apply(q)
	q.set("status", string(filter.Status))

	var page paginated[*Device]
	if err := c.do(ctx, http.MethodGet, q.encode(c.sitePath("/devices")), nil, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &DeviceList{Devices: page.Data, Pagination: page.Pagination}, nil
}

// GetDevice retrieves a device by ID.
func (c *Client) GetDevice(ctx context.Context, id string) (*Device, error) {
	var d Device
	if err := c.do(ctx, http.MethodGet, c.sitePath("/devices/"+url.PathEscape(id)), nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDevice registers a device.
func (c *Client) CreateDevice(ctx context.Context, in NewDevice) (*Device, error) {
	var d Device
	if err := c.do(ctx, http.MethodPost, c.sitePath("/devices"), in, http.StatusCreated, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDevice changes the given fields of a device.
func (c *Client) UpdateDevice(ctx context.Context, id string, in DeviceUpdate) (*Device, error) {
	var d Device
	if err := c.do(ctx, http.MethodPatch, c.sitePath("/devices/"+url.PathEscape(id)), in, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReplaceDevice starts a replacement workflow swapping id for newDeviceID and
// returns the created task group.
func (c *Client) ReplaceDevice(ctx context.Context, id, newDeviceID, reason string) (*TaskGroup, error) {
	body := struct {
		NewDeviceID string `json:"new_device_id"`
		Reason      string `json:"reason"`
	}{newDeviceID, reason}

	var group TaskGroup
	if err := c.do(ctx, http.MethodPost, c.sitePath("/devices/"+url.PathEscape(id)+"/replace"), body, http.StatusCreated, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// ConfirmAvailability marks a device as available for installation.
func (c *Client) ConfirmAvailability(ctx context.Context, id string) (*Device, error) {
	var d Device
	if err := c.do(ctx, http.MethodPost, c.sitePath("/devices/"+url.PathEscape(id)+"/confirm-availability"), nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
