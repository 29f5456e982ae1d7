package domain

import "time"

// InstallTaskDetail describes the devices swapped by an installation task.
type InstallTaskDetail struct {
	TaskID      string     `json:"task_id"`
	OldDeviceID *string    `json:"old_device_id,omitempty"`
	NewDeviceID *string    `json:"new_device_id,omitempty"`
	Area        string     `json:"area"`
	Building    string     `json:"building"`
	Floor       string     `json:"floor"`
	Room        string     `json:"room"`
	InstalledAt *time.Time `json:"installed_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// ClaimStatus is the lifecycle of a warranty claim.
type ClaimStatus string

const (
	ClaimDraft     ClaimStatus = "draft"
	ClaimSubmitted ClaimStatus = "submitted"
	ClaimConfirmed ClaimStatus = "confirmed"
	ClaimRejected  ClaimStatus = "rejected"
	ClaimReturned  ClaimStatus = "returned"
)

// IsValid checks if the claim status is known.
func (c ClaimStatus) IsValid() bool {
	switch c {
	case ClaimDraft, ClaimSubmitted, ClaimConfirmed, ClaimRejected, ClaimReturned:
		return true
	}
	return false
}

// WarrantyTaskDetail covers both warranty submission and warranty return tasks.
type WarrantyTaskDetail struct {
	TaskID           string      `json:"task_id"`
	DeviceID         string      `json:"device_id"`
	ClaimNumber      *string     `json:"claim_number,omitempty"`
	ServiceCenter    string      `json:"service_center"`
	IssueDescription string      `json:"issue_description"`
	ClaimStatus      ClaimStatus `json:"claim_status"`
	SubmittedAt      *time.Time  `json:"submitted_at,omitempty"`
	ExpectedReturnAt *time.Time  `json:"expected_return_at,omitempty"`
	ReturnedAt       *time.Time  `json:"returned_at,omitempty"`
	Resolution       *string     `json:"resolution,omitempty"`
}

// RepairPart is a spare part consumed by a repair.
type RepairPart struct {
	SparePartID string `json:"spare_part_id"`
	Quantity    int    `json:"quantity"`
}

// RepairTaskDetail describes an in-house repair.
type RepairTaskDetail struct {
	TaskID     string       `json:"task_id"`
	DeviceID   string       `json:"device_id"`
	Technician string       `json:"technician"`
	Diagnosis  string       `json:"diagnosis"`
	Notes      *string      `json:"notes,omitempty"`
	Cost       float64      `json:"cost"`
	Parts      []RepairPart `json:"parts"`
	RepairedAt *time.Time   `json:"repaired_at,omitempty"`
}
