package domain

import "testing"

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status TaskStatus
		want   bool
	}{
		{"suggested is valid", StatusSuggested, true},
		{"pending is valid", StatusPending, true},
		{"delayed is valid", StatusDelayed, true},
		{"empty string is invalid", TaskStatus(""), false},
		{"wrong case is invalid", TaskStatus("Pending"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("TaskStatus.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusSuggested, StatusPending, true},
		{StatusSuggested, StatusInProgress, false},
		{StatusPending, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusDelayed, StatusInProgress, true},
		{StatusCompleted, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusCompleted, StatusCompleted, true},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseTaskType(t *testing.T) {
	tests := []struct {
		in   string
		want TaskType
		ok   bool
	}{
		{"installation", TypeInstallation, true},
		{"Installation", TypeInstallation, true},
		{"WarrantySubmission", TypeWarrantySubmission, true},
		{"warranty_return", TypeWarrantyReturn, true},
		{"REPAIR", TypeRepair, true},
		{"StockIn", TypeStockIn, true},
		{"teleport", TaskType("teleport"), false},
	}

	for _, tt := range tests {
		got, ok := ParseTaskType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTaskType(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTaskType_DetailKind(t *testing.T) {
	tests := []struct {
		typ  TaskType
		want DetailKind
	}{
		{TypeInstallation, DetailInstallation},
		{TaskType("Installation"), DetailInstallation},
		{TypeWarrantySubmission, DetailWarranty},
		{TypeWarrantyReturn, DetailWarranty},
		{TypeRepair, DetailRepair},
		{TypeStockIn, DetailNone},
		{TypeUninstallation, DetailNone},
		{TaskType("unknown"), DetailNone},
	}

	for _, tt := range tests {
		if got := tt.typ.DetailKind(); got != tt.want {
			t.Errorf("%s.DetailKind() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestSortTasks_StableAscending(t *testing.T) {
	tasks := []*Task{
		{ID: "b", OrderIndex: 2},
		{ID: "a", OrderIndex: 1},
		{ID: "c", OrderIndex: 2},
		{ID: "z", OrderIndex: 0},
	}

	SortTasks(tasks)

	want := []string{"z", "a", "b", "c"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, tasks[i].ID, id)
		}
	}
}

func TestTaskGroup_SuggestedTasks(t *testing.T) {
	g := &TaskGroup{Tasks: []*Task{
		{ID: "1", Status: StatusSuggested},
		{ID: "2", Status: StatusPending},
		{ID: "3", Status: StatusSuggested},
	}}

	got := g.SuggestedTasks()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("SuggestedTasks() = %v", got)
	}
}

func TestValidPriority(t *testing.T) {
	for p := 0; p <= 4; p++ {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%d) = false", p)
		}
	}
	if ValidPriority(-1) || ValidPriority(5) {
		t.Error("out-of-range priorities must be invalid")
	}
}
