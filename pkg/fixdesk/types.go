package fixdesk

import (
	"strings"
	"time"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// StatusSuggested marks a task proposed by the system and not yet confirmed.
	StatusSuggested  TaskStatus = "suggested"
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusRejected   TaskStatus = "rejected"
	StatusDelayed    TaskStatus = "delayed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Priority constants for task priority levels.
const (
	PriorityCritical = 0
	PriorityHigh     = 1
	PriorityNormal   = 2
	PriorityLow      = 3
	PriorityLowest   = 4
)

// TaskType tags a task by its workflow purpose.
type TaskType string

const (
	TypeInstallation       TaskType = "installation"
	TypeUninstallation     TaskType = "uninstallation"
	TypeWarrantySubmission TaskType = "warranty_submission"
	TypeWarrantyReturn     TaskType = "warranty_return"
	TypeRepair             TaskType = "repair"
	TypeStockIn            TaskType = "stock_in"
	TypeStockOut           TaskType = "stock_out"
)

var knownTaskTypes = []TaskType{
	TypeInstallation, TypeUninstallation, TypeWarrantySubmission,
	TypeWarrantyReturn, TypeRepair, TypeStockIn, TypeStockOut,
}

// Normalize returns the canonical spelling of t, accepting any casing and
// PascalCase tags such as "WarrantySubmission". Unknown tags are returned
// unchanged with ok false.
func (t TaskType) Normalize() (TaskType, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(string(t)))
	for _, k := range knownTaskTypes {
		if strings.ReplaceAll(string(k), "_", "") == key {
			return k, true
		}
	}
	return t, false
}

// DetailKind identifies which per-type detail record belongs to a task.
type DetailKind int

const (
	DetailNone DetailKind = iota
	DetailInstallation
	DetailWarranty
	DetailRepair
)

func (k DetailKind) String() string {
	switch k {
	case DetailInstallation:
		return "installation"
	case DetailWarranty:
		return "warranty"
	case DetailRepair:
		return "repair"
	default:
		return "none"
	}
}

// DetailKind maps the task type to its detail variant.
func (t TaskType) DetailKind() DetailKind {
	n, _ := t.Normalize()
	switch n {
	case TypeInstallation:
		return DetailInstallation
	case TypeWarrantySubmission, TypeWarrantyReturn:
		return DetailWarranty
	case TypeRepair:
		return DetailRepair
	default:
		return DetailNone
	}
}

// GroupType classifies a task group.
type GroupType string

const (
	GroupReplacement  GroupType = "replacement"
	GroupRepair       GroupType = "repair"
	GroupWarranty     GroupType = "warranty"
	GroupInstallation GroupType = "installation"
	GroupStockRequest GroupType = "stock_request"
)

// Task is one step within a task group.
type Task struct {
	ID           string     `json:"id"`
	TaskGroupID  string     `json:"task_group_id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	Type         TaskType   `json:"type"`
	Status       TaskStatus `json:"status"`
	Priority     int        `json:"priority"`
	AssigneeName *string    `json:"assignee_name,omitempty"`
	OrderIndex   int        `json:"order_index"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	ExpectedTime *time.Time `json:"expected_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskGroup is a named, ordered collection of tasks.
type TaskGroup struct {
	ID        string    `json:"id"`
	GroupName string    `json:"group_name"`
	Type      GroupType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     []*Task   `json:"tasks"`
}

// TaskGroupList represents a paginated list of task groups.
type TaskGroupList struct {
	Groups     []*TaskGroup
	Pagination Pagination
}

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

// WarrantyTaskDetail covers warranty submission and return tasks.
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

// DeviceStatus is the operational state of a device.
type DeviceStatus string

const (
	DeviceActive         DeviceStatus = "active"
	DeviceAvailable      DeviceStatus = "available"
	DeviceInRepair       DeviceStatus = "in_repair"
	DeviceInWarranty     DeviceStatus = "in_warranty"
	DeviceDecommissioned DeviceStatus = "decommissioned"
)

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

// DeviceList represents a paginated list of devices.
type DeviceList struct {
	Devices    []*Device
	Pagination Pagination
}

// StockLevel classifies a spare part's quantity against its threshold.
type StockLevel string

const (
	StockOK         StockLevel = "ok"
	StockLow        StockLevel = "low_stock"
	StockOutOfStock StockLevel = "out_of_stock"
)

// ClassifyStock returns the stock level for a quantity and threshold.
// Zero is always out of stock, never merely low.
func ClassifyStock(quantity, minThreshold int) StockLevel {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity < minThreshold:
		return StockLow
	default:
		return StockOK
	}
}

// SparePart is one inventory line.
type SparePart struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	MachineType  string    `json:"machine_type"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"min_threshold"`
	Unit         string    `json:"unit"`
	Supplier     string    `json:"supplier"`
	Price        float64   `json:"price"`
	ImageURL     *string   `json:"image_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockLevel classifies the part's current quantity.
func (p *SparePart) StockLevel() StockLevel {
	return ClassifyStock(p.Quantity, p.MinThreshold)
}

// SparePartList represents a paginated list of spare parts.
type SparePartList struct {
	Parts      []*SparePart
	Pagination Pagination
}

// InventorySummary aggregates the whole inventory of a site.
type InventorySummary struct {
	TotalParts      int `json:"total_parts"`
	TotalStock      int `json:"total_stock"`
	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
}

// ImportResult reports the outcome of an inventory import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// OpenPart is the cross-view "open this part" signal.
type OpenPart struct {
	PartID    string    `json:"part_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Role is a user's access tag.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleStaff      Role = "staff"
)

// User is a dashboard account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserList represents a paginated list of users.
type UserList struct {
	Users      []*User
	Pagination Pagination
}

// Shift is a configured working window.
type Shift struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Active       bool   `json:"active"`
	IsOfficeHour bool   `json:"is_office_hour"`
}

// Holiday is a non-working date.
type Holiday struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Active bool   `json:"active"`
}

// WorkingHours is the scheduling configuration of a site.
type WorkingHours struct {
	Shifts   []*Shift   `json:"shifts"`
	Holidays []*Holiday `json:"holidays"`
}

// AuditEntry represents a single change in the audit log.
type AuditEntry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Field      *string   `json:"field,omitempty"`
	OldValue   *string   `json:"old_value,omitempty"`
	NewValue   *string   `json:"new_value,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  string    `json:"changed_by"`
}

// AuditList represents a paginated audit query result.
type AuditList struct {
	Entries    []*AuditEntry
	Pagination Pagination
}

// Pagination is the paging metadata of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// paginated is the raw JSON structure for paginated responses.
type paginated[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
