package domain

import (
	"sort"
	"strings"
	"time"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusSuggested  TaskStatus = "suggested"
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusRejected   TaskStatus = "rejected"
	StatusDelayed    TaskStatus = "delayed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Priority constants for convenience.
const (
	PriorityCritical = 0
	PriorityHigh     = 1
	PriorityNormal   = 2 // Default priority
	PriorityLow      = 3
	PriorityLowest   = 4
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []TaskStatus{
	StatusSuggested, StatusPending, StatusInProgress, StatusCompleted,
	StatusRejected, StatusDelayed, StatusCancelled,
}

// IsValid checks if the status is a valid task status.
func (s TaskStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

var allowedTransitions = map[TaskStatus][]TaskStatus{
	StatusSuggested:  {StatusPending, StatusRejected, StatusCancelled},
	StatusPending:    {StatusInProgress, StatusDelayed, StatusRejected, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusDelayed, StatusRejected},
	StatusDelayed:    {StatusPending, StatusInProgress, StatusCancelled},
}

// CanTransition reports whether a task may move from s to next.
// Staying in the same status is always allowed.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if s == next {
		return true
	}
	for _, v := range allowedTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

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

// ValidTaskTypes contains all known task types.
var ValidTaskTypes = []TaskType{
	TypeInstallation, TypeUninstallation, TypeWarrantySubmission,
	TypeWarrantyReturn, TypeRepair, TypeStockIn, TypeStockOut,
}

// ParseTaskType normalizes a task type tag. It accepts any casing and both
// the snake_case and the PascalCase spelling ("WarrantySubmission").
func ParseTaskType(s string) (TaskType, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for _, t := range ValidTaskTypes {
		if strings.ReplaceAll(string(t), "_", "") == key {
			return t, true
		}
	}
	return TaskType(s), false
}

// IsValid checks if the type is a known task type.
func (t TaskType) IsValid() bool {
	_, ok := ParseTaskType(string(t))
	return ok
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
	parsed, _ := ParseTaskType(string(t))
	switch parsed {
	case TypeInstallation:
		return DetailInstallation
	case TypeWarrantySubmission, TypeWarrantyReturn:
		return DetailWarranty
	case TypeRepair:
		return DetailRepair
	case TypeUninstallation, TypeStockIn, TypeStockOut:
		return DetailNone
	default:
		return DetailNone
	}
}

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

// ValidPriority checks if the priority value is within valid range (0-4).
func ValidPriority(p int) bool {
	return p >= 0 && p <= 4
}

// SortTasks orders tasks by OrderIndex ascending, keeping the input order
// for equal indexes.
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].OrderIndex < tasks[j].OrderIndex
	})
}
