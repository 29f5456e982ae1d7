package domain

import "time"

// GroupType classifies the maintenance workflow a task group represents.
type GroupType string

const (
	GroupReplacement  GroupType = "replacement"
	GroupRepair       GroupType = "repair"
	GroupWarranty     GroupType = "warranty"
	GroupInstallation GroupType = "installation"
	GroupStockRequest GroupType = "stock_request"
)

// ValidGroupTypes contains all valid task group types.
var ValidGroupTypes = []GroupType{
	GroupReplacement, GroupRepair, GroupWarranty, GroupInstallation, GroupStockRequest,
}

// IsValid checks if the group type is known.
func (g GroupType) IsValid() bool {
	for _, v := range ValidGroupTypes {
		if g == v {
			return true
		}
	}
	return false
}

// TaskGroup is a named, ordered collection of tasks.
type TaskGroup struct {
	ID        string    `json:"id"`
	GroupName string    `json:"group_name"`
	Type      GroupType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     []*Task   `json:"tasks"`
}

// SuggestedTasks returns the tasks still awaiting confirmation.
func (g *TaskGroup) SuggestedTasks() []*Task {
	var out []*Task
	for _, t := range g.Tasks {
		if t.Status == StatusSuggested {
			out = append(out, t)
		}
	}
	return out
}
