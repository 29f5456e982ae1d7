package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	manager, err := store.NewManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	db, err := manager.GetDB("test-site")
	require.NoError(t, err)
	return db
}

var baseTime = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newTask(id, groupID string, taskType domain.TaskType, status domain.TaskStatus, order int) *domain.Task {
	return &domain.Task{
		ID:          id,
		TaskGroupID: groupID,
		Name:        "task " + id,
		Type:        taskType,
		Status:      status,
		Priority:    domain.PriorityNormal,
		OrderIndex:  order,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
}

func createGroup(t *testing.T, db *sql.DB, id string, tasks ...*domain.Task) *domain.TaskGroup {
	t.Helper()
	g := &domain.TaskGroup{
		ID:        id,
		GroupName: "group " + id,
		Type:      domain.GroupReplacement,
		CreatedAt: baseTime,
		Tasks:     tasks,
	}
	require.NoError(t, sqlite.NewTaskGroupRepository(db).Create(context.Background(), g))
	return g
}

func TestTaskGroupRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	createGroup(t, db, "tg-1",
		newTask("tk-b", "tg-1", domain.TypeInstallation, domain.StatusPending, 2),
		newTask("tk-a", "tg-1", domain.TypeUninstallation, domain.StatusPending, 1),
	)

	got, err := sqlite.NewTaskGroupRepository(db).GetByID(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, "group tg-1", got.GroupName)
	assert.Equal(t, domain.GroupReplacement, got.Type)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "tk-a", got.Tasks[0].ID, "tasks come back in order_index order")
	assert.Equal(t, domain.TypeInstallation, got.Tasks[1].Type)
	assert.True(t, got.CreatedAt.Equal(baseTime))
}

func TestTaskGroupRepository_GetMissing(t *testing.T) {
	db := setupDB(t)
	_, err := sqlite.NewTaskGroupRepository(db).GetByID(context.Background(), "tg-missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTaskGroupRepository_ListFilterAndPaging(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := sqlite.NewTaskGroupRepository(db)

	createGroup(t, db, "tg-1")
	createGroup(t, db, "tg-2")
	require.NoError(t, repo.Create(ctx, &domain.TaskGroup{
		ID: "tg-3", GroupName: "repair", Type: domain.GroupRepair, CreatedAt: baseTime,
	}))

	all, total, err := repo.List(ctx, nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 2)

	repairType := domain.GroupRepair
	repairs, total, err := repo.List(ctx, &repairType, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, repairs, 1)
	assert.Equal(t, "tg-3", repairs[0].ID)
}

func TestTaskGroupRepository_ApplySuggested(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := sqlite.NewTaskGroupRepository(db)

	createGroup(t, db, "tg-1",
		newTask("tk-1", "tg-1", domain.TypeUninstallation, domain.StatusSuggested, 1),
		newTask("tk-2", "tg-1", domain.TypeInstallation, domain.StatusSuggested, 2),
		newTask("tk-3", "tg-1", domain.TypeRepair, domain.StatusCompleted, 3),
	)

	ids, err := repo.ApplySuggested(ctx, "tg-1", baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"tk-1", "tk-2"}, ids)

	got, err := repo.GetByID(ctx, "tg-1")
	require.NoError(t, err)
	assert.Empty(t, got.SuggestedTasks())
	assert.Equal(t, domain.StatusPending, got.Tasks[0].Status)
	assert.Equal(t, domain.StatusCompleted, got.Tasks[2].Status)

	ids, err = repo.ApplySuggested(ctx, "tg-1", baseTime)
	require.NoError(t, err)
	assert.Empty(t, ids, "second apply is a no-op")
}

func TestTaskGroupRepository_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	createGroup(t, db, "tg-1", newTask("tk-1", "tg-1", domain.TypeRepair, domain.StatusPending, 0))
	require.NoError(t, sqlite.NewTaskGroupRepository(db).Delete(ctx, "tg-1"))

	_, err := sqlite.NewTaskRepository(db).GetByID(ctx, "tk-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = sqlite.NewTaskGroupRepository(db).Delete(ctx, "tg-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTaskRepository_Update(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := sqlite.NewTaskRepository(db)

	task := newTask("tk-1", "tg-1", domain.TypeRepair, domain.StatusPending, 0)
	createGroup(t, db, "tg-1", task)

	assignee := "Minh"
	end := baseTime.Add(2 * time.Hour)
	task.Status = domain.StatusInProgress
	task.AssigneeName = &assignee
	task.ExpectedTime = &end
	task.UpdatedAt = baseTime.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, "tk-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	require.NotNil(t, got.AssigneeName)
	assert.Equal(t, "Minh", *got.AssigneeName)
	require.NotNil(t, got.ExpectedTime)
	assert.True(t, got.ExpectedTime.Equal(end))
	assert.Nil(t, got.StartTime)
}

func TestDetailRepository_RoundTrips(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := sqlite.NewDetailRepository(db)

	createGroup(t, db, "tg-1",
		newTask("tk-i", "tg-1", domain.TypeInstallation, domain.StatusPending, 0),
		newTask("tk-w", "tg-1", domain.TypeWarrantySubmission, domain.StatusPending, 1),
		newTask("tk-r", "tg-1", domain.TypeRepair, domain.StatusPending, 2),
	)

	oldID, newID := "dv-old", "dv-new"
	require.NoError(t, repo.SaveInstallation(ctx, &domain.InstallTaskDetail{
		TaskID: "tk-i", OldDeviceID: &oldID, NewDeviceID: &newID, Building: "B1", Room: "101",
	}))
	inst, err := repo.GetInstallation(ctx, "tk-i")
	require.NoError(t, err)
	assert.Equal(t, "dv-new", *inst.NewDeviceID)
	assert.Equal(t, "B1", inst.Building)

	// Saving again overwrites
	require.NoError(t, repo.SaveInstallation(ctx, &domain.InstallTaskDetail{TaskID: "tk-i", Building: "B2"}))
	inst, err = repo.GetInstallation(ctx, "tk-i")
	require.NoError(t, err)
	assert.Equal(t, "B2", inst.Building)
	assert.Nil(t, inst.NewDeviceID)

	require.NoError(t, repo.SaveWarranty(ctx, &domain.WarrantyTaskDetail{
		TaskID: "tk-w", DeviceID: "dv-old", ClaimStatus: domain.ClaimSubmitted, ServiceCenter: "HCM",
	}))
	w, err := repo.GetWarranty(ctx, "tk-w")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimSubmitted, w.ClaimStatus)

	require.NoError(t, repo.SaveRepair(ctx, &domain.RepairTaskDetail{
		TaskID: "tk-r", DeviceID: "dv-old", Cost: 120.5,
		Parts: []domain.RepairPart{{SparePartID: "sp-1", Quantity: 2}},
	}))
	r, err := repo.GetRepair(ctx, "tk-r")
	require.NoError(t, err)
	assert.Equal(t, 120.5, r.Cost)
	assert.Equal(t, []domain.RepairPart{{SparePartID: "sp-1", Quantity: 2}}, r.Parts)

	_, err = repo.GetRepair(ctx, "tk-i")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func seedParts(t *testing.T, db *sql.DB, n int) {
	t.Helper()
	repo := sqlite.NewSparePartRepository(db)
	for i := 0; i < n; i++ {
		p := &domain.SparePart{
			ID:           "sp-" + string(rune('a'+i)),
			Name:         "part " + string(rune('a'+i)),
			Category:     "filter",
			Quantity:     i % 5,
			MinThreshold: 3,
			UpdatedAt:    baseTime,
		}
		if i%2 == 1 {
			p.Category = "belt"
		}
		require.NoError(t, repo.Create(context.Background(), p))
	}
}

func TestSparePartRepository_ListPaging(t *testing.T) {
	db := setupDB(t)
	seedParts(t, db, 25)
	repo := sqlite.NewSparePartRepository(db)

	page, total, err := repo.List(context.Background(), sqlite.SparePartFilter{}, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page, 5)
}

func TestSparePartRepository_Filters(t *testing.T) {
	db := setupDB(t)
	seedParts(t, db, 10)
	repo := sqlite.NewSparePartRepository(db)
	ctx := context.Background()

	// Quantities cycle 0,1,2,3,4; threshold 3
	_, out, err := repo.List(ctx, sqlite.SparePartFilter{Stock: domain.StockOutOfStock}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, out)

	_, low, err := repo.List(ctx, sqlite.SparePartFilter{Stock: domain.StockLow}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 4, low)

	belts, total, err := repo.List(ctx, sqlite.SparePartFilter{Category: "belt"}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	for _, p := range belts {
		assert.Equal(t, "belt", p.Category)
	}

	_, total, err = repo.List(ctx, sqlite.SparePartFilter{Search: "part c"}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSparePartRepository_SummaryMatchesClassification(t *testing.T) {
	db := setupDB(t)
	seedParts(t, db, 10)
	repo := sqlite.NewSparePartRepository(db)
	ctx := context.Background()

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	var want domain.InventorySummary
	for _, p := range all {
		want.Add(p)
	}
	assert.Equal(t, want, *summary)
	assert.Equal(t, 10, summary.TotalParts)
	assert.Equal(t, 20, summary.TotalStock)
}

func TestSparePartRepository_UpdateUnchangedIsIdempotent(t *testing.T) {
	db := setupDB(t)
	seedParts(t, db, 1)
	repo := sqlite.NewSparePartRepository(db)
	ctx := context.Background()

	before, err := repo.GetByID(ctx, "sp-a")
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, before))

	after, err := repo.GetByID(ctx, "sp-a")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSparePartRepository_UpsertByName(t *testing.T) {
	db := setupDB(t)
	seedParts(t, db, 1)
	repo := sqlite.NewSparePartRepository(db)
	ctx := context.Background()

	created, err := repo.UpsertByName(ctx, &domain.SparePart{ID: "sp-new", Name: "part a", Quantity: 9, UpdatedAt: baseTime})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByName(ctx, "part a")
	require.NoError(t, err)
	assert.Equal(t, "sp-a", got.ID)
	assert.Equal(t, 9, got.Quantity)

	created, err = repo.UpsertByName(ctx, &domain.SparePart{ID: "sp-z", Name: "part z", UpdatedAt: baseTime})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestAuditRepository_ListByEntity(t *testing.T) {
	db := setupDB(t)
	repo := sqlite.NewAuditRepository(db)
	ctx := context.Background()

	e1 := domain.NewAuditEntry(domain.EntityTask, "tk-1", domain.ActionCreate, "alice")
	e1.ChangedAt = baseTime
	e2 := domain.NewAuditEntry(domain.EntityTask, "tk-1", domain.ActionStatus, "bob").
		WithChange("status", "pending", "in_progress")
	e2.ChangedAt = baseTime.Add(time.Minute)
	other := domain.NewAuditEntry(domain.EntityDevice, "tk-1", domain.ActionUpdate, "alice")

	for _, e := range []domain.AuditEntry{e1, e2, other} {
		e := e
		require.NoError(t, repo.Log(ctx, &e))
	}

	entries, err := repo.ListByEntity(ctx, domain.EntityTask, "tk-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionStatus, entries[0].Action)
	assert.Equal(t, "in_progress", *entries[0].NewValue)

	action := string(domain.ActionCreate)
	found, total, err := repo.Query(ctx, sqlite.AuditQueryParams{Action: &action, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "alice", found[0].ChangedBy)
}

func TestWorkingHoursRepository(t *testing.T) {
	db := setupDB(t)
	repo := sqlite.NewWorkingHoursRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateShift(ctx, &domain.Shift{ID: "sh-2", Name: "Late", StartTime: "13:00", EndTime: "17:00", Active: true}))
	require.NoError(t, repo.CreateShift(ctx, &domain.Shift{ID: "sh-1", Name: "Early", StartTime: "08:00", EndTime: "12:00", Active: true, IsOfficeHour: true}))

	shifts, err := repo.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "sh-1", shifts[0].ID)
	assert.True(t, shifts[0].IsOfficeHour)

	shifts[1].Active = false
	require.NoError(t, repo.UpdateShift(ctx, shifts[1]))
	got, err := repo.GetShift(ctx, "sh-2")
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, repo.CreateHoliday(ctx, &domain.Holiday{ID: "hd-1", Name: "Tet", Date: "2026-02-17", Active: true}))
	require.NoError(t, repo.DeleteHoliday(ctx, "hd-1"))
	assert.ErrorIs(t, repo.DeleteHoliday(ctx, "hd-1"), sql.ErrNoRows)
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{
		ID: "us-1", Username: "lan", FullName: "Lan", Role: domain.RoleTechnician,
		Active: true, PasswordHash: "hash", CreatedAt: baseTime,
	}))

	exists, err := repo.ExistsUsername(ctx, "lan")
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := repo.GetByID(ctx, "us-1")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, domain.RoleTechnician, u.Role)

	role := domain.RoleAdmin
	_, total, err := repo.List(ctx, &role, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSparePartRepository_SearchIsLiteral(t *testing.T) {
	db := setupDB(t)
	repo := sqlite.NewSparePartRepository(db)
	ctx := context.Background()
	for i, name := range []string{"Bearing 6204", "Belt 50% wear", "Ống dẫn khí", `Valve A\B`} {
		require.NoError(t, repo.Create(ctx, &domain.SparePart{
			ID:        fmt.Sprintf("sp-%d", i),
			Name:      name,
			Category:  "misc",
			UpdatedAt: baseTime,
		}))
	}

	names := func(search string) []string {
		parts, _, err := repo.List(ctx, sqlite.SparePartFilter{Search: search}, 1, 50)
		require.NoError(t, err)
		var out []string
		for _, p := range parts {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Belt 50% wear"}, names("%"))
	assert.Empty(t, names("_"))
	assert.Equal(t, []string{"Ống dẫn khí"}, names("ống"))
	assert.Equal(t, []string{"Ống dẫn khí"}, names("DẪN"))
	assert.Equal(t, []string{`Valve A\B`}, names(`a\b`))
	assert.Len(t, names("be"), 2)
}
