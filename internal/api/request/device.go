package request

import (
	"net/http"
	"strings"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// CreateDeviceRequest represents a request to register a device.
type CreateDeviceRequest struct {
	Name              string               `json:"name"`
	Code              string               `json:"code"`
	Model             string               `json:"model"`
	Manufacturer      string               `json:"manufacturer"`
	Status            *domain.DeviceStatus `json:"status,omitempty"`
	UnderWarranty     bool                 `json:"under_warranty"`
	WarrantyExpiresAt *time.Time           `json:"warranty_expires_at,omitempty"`
	Area              string               `json:"area"`
	Building          string               `json:"building"`
	Floor             string               `json:"floor"`
	Room              string               `json:"room"`
}

// Validate validates the create device request.
func (r *CreateDeviceRequest) Validate() map[string]string {
	errs := fieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		errs.add("name", "name is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		errs.add("code", "code is required")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs.add("status", "unknown device status")
	}
	return errs
}

// UpdateDeviceRequest represents a request to update a device.
type UpdateDeviceRequest struct {
	Name              *string              `json:"name,omitempty"`
	Model             *string              `json:"model,omitempty"`
	Manufacturer      *string              `json:"manufacturer,omitempty"`
	Status            *domain.DeviceStatus `json:"status,omitempty"`
	UnderWarranty     *bool                `json:"under_warranty,omitempty"`
	WarrantyExpiresAt *time.Time           `json:"warranty_expires_at,omitempty"`
	Area              *string              `json:"area,omitempty"`
	Building          *string              `json:"building,omitempty"`
	Floor             *string              `json:"floor,omitempty"`
	Room              *string              `json:"room,omitempty"`
}

// Validate validates the update device request.
func (r *UpdateDeviceRequest) Validate() map[string]string {
	errs := fieldErrors{}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs.add("name", "name cannot be empty")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs.add("status", "unknown device status")
	}
	return errs
}

// ReplaceDeviceRequest represents a request to replace a device.
type ReplaceDeviceRequest struct {
	NewDeviceID string `json:"new_device_id"`
	Reason      string `json:"reason"`
}

// Validate validates the replace device request.
func (r *ReplaceDeviceRequest) Validate() map[string]string {
	errs := fieldErrors{}
	if strings.TrimSpace(r.NewDeviceID) == "" {
		errs.add("new_device_id", "new_device_id is required")
	}
	return errs
}

// ParseDeviceStatus extracts the device status filter from query parameters.
func ParseDeviceStatus(r *http.Request) *domain.DeviceStatus {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil
	}
	status := domain.DeviceStatus(s)
	if !status.IsValid() {
		return nil
	}
	return &status
}
