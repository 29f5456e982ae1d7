package domain

import "time"

// DeviceStatus is the operational state of a device.
type DeviceStatus string

const (
	DeviceActive         DeviceStatus = "active"
	DeviceAvailable      DeviceStatus = "available"
	DeviceInRepair       DeviceStatus = "in_repair"
	DeviceInWarranty     DeviceStatus = "in_warranty"
	DeviceDecommissioned DeviceStatus = "decommissioned"
)

// IsValid checks if the device status is known.
func (s DeviceStatus) IsValid() bool {
	switch s {
	case DeviceActive, DeviceAvailable, DeviceInRepair, DeviceInWarranty, DeviceDecommissioned:
		return true
	}
	return false
}

// Device is a piece of equipment installed at a site.
type Device struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Code              string       `json:"code"`
	Model             string       `json:"model"`
	Manufacturer      string       `json:"manufacturer"`
	Status            DeviceStatus `json:"status"`
	UnderWarranty     bool         `json:"under_warranty"`
	WarrantyExpiresAt *time.Time   `json:"warranty_expires_at,omitempty"`
	Area              string       `json:"area"`
	Building          string       `json:"building"`
	Floor             string       `json:"floor"`
	Room              string       `json:"room"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// WarrantyValid reports whether the device can still be sent for warranty at t.
func (d *Device) WarrantyValid(t time.Time) bool {
	if !d.UnderWarranty {
		return false
	}
	return d.WarrantyExpiresAt == nil || t.Before(*d.WarrantyExpiresAt)
}
