package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/store"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

type recordedEvents struct {
	mu        sync.Mutex
	groups    []string
	inventory int
}

func (r *recordedEvents) TaskGroupUpdated(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, id)
}

func (r *recordedEvents) InventoryUpdated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inventory++
}

type fixture struct {
	db      *sql.DB
	events  *recordedEvents
	groups  *service.TaskGroupService
	tasks   *service.TaskService
	details *service.DetailService
	devices *service.DeviceService
	parts   *service.SparePartService
	users   *service.UserService
	hours   *service.WorkingHoursService
	audit   *service.AuditService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	manager, err := store.NewManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	db, err := manager.GetDB("test")
	require.NoError(t, err)

	ev := &recordedEvents{}
	taskRepo := sqlite.NewTaskRepository(db)
	groupRepo := sqlite.NewTaskGroupRepository(db)
	detailRepo := sqlite.NewDetailRepository(db)
	deviceRepo := sqlite.NewDeviceRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	return &fixture{
		db:      db,
		events:  ev,
		groups:  service.NewTaskGroupService(groupRepo, auditRepo, ev),
		tasks:   service.NewTaskService(taskRepo, auditRepo, ev),
		details: service.NewDetailService(taskRepo, detailRepo, deviceRepo, auditRepo, ev),
		devices: service.NewDeviceService(deviceRepo, groupRepo, auditRepo, ev),
		parts:   service.NewSparePartService(sqlite.NewSparePartRepository(db), auditRepo, ev),
		users:   service.NewUserService(sqlite.NewUserRepository(db), auditRepo),
		hours:   service.NewWorkingHoursService(sqlite.NewWorkingHoursRepository(db)),
		audit:   service.NewAuditService(auditRepo, taskRepo),
	}
}

func requireCode(t *testing.T, err error, code domain.ErrorCode) *domain.DomainError {
	t.Helper()
	require.Error(t, err)
	de, ok := err.(*domain.DomainError)
	require.True(t, ok, "expected *domain.DomainError, got %T", err)
	assert.Equal(t, code, de.Code)
	return de
}

func suggested() *domain.TaskStatus {
	s := domain.StatusSuggested
	return &s
}

func TestTaskGroupService_CreateOrdersTasks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	second, first := 2, 1
	g, err := f.groups.Create(ctx, service.CreateTaskGroupInput{
		GroupName: "Stock request",
		Type:      domain.GroupStockRequest,
		Tasks: []service.CreateTaskInput{
			{Name: "receive", Type: "StockIn", OrderIndex: &second},
			{Name: "pick", Type: "stock_out", OrderIndex: &first},
		},
	}, "alice")
	require.NoError(t, err)

	require.Len(t, g.Tasks, 2)
	assert.Equal(t, "pick", g.Tasks[0].Name)
	assert.Equal(t, domain.TypeStockIn, g.Tasks[1].Type, "PascalCase types are normalized")
	assert.Equal(t, domain.StatusPending, g.Tasks[0].Status)
	assert.Equal(t, []string{g.ID}, f.events.groups)
}

func TestTaskGroupService_ApplySuggested(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	g, err := f.groups.Create(ctx, service.CreateTaskGroupInput{
		GroupName: "Replace",
		Type:      domain.GroupReplacement,
		Tasks: []service.CreateTaskInput{
			{Name: "a", Type: domain.TypeUninstallation, Status: suggested()},
			{Name: "b", Type: domain.TypeInstallation, Status: suggested()},
		},
	}, "alice")
	require.NoError(t, err)
	assert.Len(t, g.SuggestedTasks(), 2)

	updated, err := f.groups.ApplySuggested(ctx, g.ID, "bob")
	require.NoError(t, err)
	assert.Empty(t, updated.SuggestedTasks())

	history, err := f.audit.GetTaskHistory(ctx, g.Tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ActionApplySuggested, history[0].Action)

	_, err = f.groups.ApplySuggested(ctx, "tg-missing", "bob")
	requireCode(t, err, domain.ErrCodeTaskGroupNotFound)
}

func TestTaskService_UpdateTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	g, err := f.groups.Create(ctx, service.CreateTaskGroupInput{
		GroupName: "Repair", Type: domain.GroupRepair,
		Tasks: []service.CreateTaskInput{{Name: "fix", Type: domain.TypeRepair}},
	}, "alice")
	require.NoError(t, err)
	taskID := g.Tasks[0].ID

	inProgress := domain.StatusInProgress
	task, err := f.tasks.Update(ctx, taskID, service.UpdateTaskInput{Status: &inProgress}, "bob")
	require.NoError(t, err)
	assert.NotNil(t, task.StartTime, "start time is stamped")

	suggestedStatus := domain.StatusSuggested
	_, err = f.tasks.Update(ctx, taskID, service.UpdateTaskInput{Status: &suggestedStatus}, "bob")
	requireCode(t, err, domain.ErrCodeInvalidTransition)

	completed := domain.StatusCompleted
	task, err = f.tasks.Update(ctx, taskID, service.UpdateTaskInput{Status: &completed}, "bob")
	require.NoError(t, err)
	assert.NotNil(t, task.EndTime)

	_, err = f.tasks.Update(ctx, "tk-missing", service.UpdateTaskInput{}, "bob")
	requireCode(t, err, domain.ErrCodeTaskNotFound)
}

func createDevice(t *testing.T, f *fixture, code string, status domain.DeviceStatus, underWarranty bool) *domain.Device {
	t.Helper()
	d, err := f.devices.Create(context.Background(), service.CreateDeviceInput{
		Name: "Pump " + code, Code: code, Status: &status, UnderWarranty: underWarranty, Building: "A",
	}, "alice")
	require.NoError(t, err)
	return d
}

func TestDeviceService_ReplaceCreatesSuggestedGroup(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	oldDev := createDevice(t, f, "P-1", domain.DeviceActive, true)
	newDev := createDevice(t, f, "P-2", domain.DeviceAvailable, false)

	g, err := f.devices.Replace(ctx, oldDev.ID, service.ReplaceDeviceInput{NewDeviceID: newDev.ID, Reason: "leaking"}, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.GroupReplacement, g.Type)
	require.Len(t, g.Tasks, 3)
	assert.Len(t, g.SuggestedTasks(), 3)
	assert.Equal(t, domain.TypeUninstallation, g.Tasks[0].Type)
	assert.Equal(t, domain.TypeInstallation, g.Tasks[1].Type)
	assert.Equal(t, domain.TypeWarrantySubmission, g.Tasks[2].Type, "device under warranty goes to warranty")

	inst, err := f.details.GetInstallation(ctx, g.Tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, oldDev.ID, *inst.OldDeviceID)
	assert.Equal(t, newDev.ID, *inst.NewDeviceID)
	assert.Equal(t, "A", inst.Building)

	w, err := f.details.GetWarranty(ctx, g.Tasks[2].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimDraft, w.ClaimStatus)
	assert.Equal(t, "leaking", w.IssueDescription)
}

func TestDeviceService_ReplaceWithoutWarrantyRepairs(t *testing.T) {
	f := setup(t)
	oldDev := createDevice(t, f, "P-1", domain.DeviceActive, false)
	newDev := createDevice(t, f, "P-2", domain.DeviceAvailable, false)

	g, err := f.devices.Replace(context.Background(), oldDev.ID, service.ReplaceDeviceInput{NewDeviceID: newDev.ID}, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeRepair, g.Tasks[2].Type)
}

func TestDeviceService_ReplaceRejectsUnavailable(t *testing.T) {
	f := setup(t)
	oldDev := createDevice(t, f, "P-1", domain.DeviceActive, false)
	busy := createDevice(t, f, "P-2", domain.DeviceActive, false)

	_, err := f.devices.Replace(context.Background(), oldDev.ID, service.ReplaceDeviceInput{NewDeviceID: busy.ID}, "alice")
	de := requireCode(t, err, domain.ErrCodeValidationFailed)
	assert.Contains(t, de.Fields, "new_device_id")

	_, err = f.devices.Replace(context.Background(), oldDev.ID, service.ReplaceDeviceInput{NewDeviceID: "dv-nope"}, "alice")
	de = requireCode(t, err, domain.ErrCodeValidationFailed)
	assert.Contains(t, de.Fields, "new_device_id")
}

func TestDeviceService_ConfirmAvailability(t *testing.T) {
	f := setup(t)
	d := createDevice(t, f, "P-1", domain.DeviceInRepair, false)

	got, err := f.devices.ConfirmAvailability(context.Background(), d.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceAvailable, got.Status)

	_, err = f.devices.ConfirmAvailability(context.Background(), "dv-missing", "alice")
	requireCode(t, err, domain.ErrCodeDeviceNotFound)
}

func TestDetailService_RejectsWrongKind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	g, err := f.groups.Create(ctx, service.CreateTaskGroupInput{
		GroupName: "g", Type: domain.GroupRepair,
		Tasks: []service.CreateTaskInput{{Name: "fix", Type: domain.TypeRepair}},
	}, "alice")
	require.NoError(t, err)

	_, err = f.details.SaveInstallation(ctx, &domain.InstallTaskDetail{TaskID: g.Tasks[0].ID}, "alice")
	requireCode(t, err, domain.ErrCodeValidationFailed)

	_, err = f.details.GetRepair(ctx, g.Tasks[0].ID)
	requireCode(t, err, domain.ErrCodeDetailNotFound)
}

func TestDetailService_ConfirmWarranty(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dev := createDevice(t, f, "P-1", domain.DeviceActive, true)

	g, err := f.groups.Create(ctx, service.CreateTaskGroupInput{
		GroupName: "w", Type: domain.GroupWarranty,
		Tasks: []service.CreateTaskInput{{Name: "submit", Type: domain.TypeWarrantySubmission}},
	}, "alice")
	require.NoError(t, err)
	taskID := g.Tasks[0].ID

	_, err = f.details.SaveWarranty(ctx, &domain.WarrantyTaskDetail{TaskID: taskID, DeviceID: dev.ID}, "alice")
	require.NoError(t, err)

	w, err := f.details.ConfirmWarranty(ctx, taskID, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimConfirmed, w.ClaimStatus)
	assert.NotNil(t, w.SubmittedAt)

	got, err := f.devices.Get(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceInWarranty, got.Status)
}

func TestSparePartService_UpdateUnchanged(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	name, qty, min := "Bearing", 4, 2
	p, err := f.parts.Create(ctx, service.SparePartInput{Name: &name, Quantity: &qty, MinThreshold: &min}, "alice")
	require.NoError(t, err)

	_, err = f.parts.Update(ctx, p.ID, service.SparePartInput{Name: &name, Quantity: &qty, MinThreshold: &min}, "alice")
	require.NoError(t, err)

	got, err := f.parts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Quantity, got.Quantity)
	assert.Equal(t, p.MinThreshold, got.MinThreshold)
	assert.Equal(t, 2, f.events.inventory)
}

func TestSparePartService_DuplicateName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	name := "Bearing"
	_, err := f.parts.Create(ctx, service.SparePartInput{Name: &name}, "alice")
	require.NoError(t, err)
	_, err = f.parts.Create(ctx, service.SparePartInput{Name: &name}, "alice")
	de := requireCode(t, err, domain.ErrCodeValidationFailed)
	assert.Contains(t, de.Fields, "name")
}

func TestSparePartService_Import(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	name := "Bearing"
	_, err := f.parts.Create(ctx, service.SparePartInput{Name: &name}, "alice")
	require.NoError(t, err)

	res, err := f.parts.Import(ctx, []*domain.SparePart{
		{Name: "Bearing", Quantity: 10},
		{Name: "Belt", Quantity: 0, MinThreshold: 1},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, service.ImportResult{Created: 1, Updated: 1}, *res)

	summary, err := f.parts.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalParts)
	assert.Equal(t, 10, summary.TotalStock)
	assert.Equal(t, 1, summary.OutOfStockCount)
}

func TestUserService_CreateHashesAndRejectsDuplicates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in := service.CreateUserInput{Username: "lan", FullName: "Lan", Role: domain.RoleTechnician, Password: "Secret123"}
	u, err := f.users.Create(ctx, in, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", u.PasswordHash)
	assert.True(t, service.CheckPassword(u, "Secret123"))
	assert.False(t, service.CheckPassword(u, "secret123"))

	_, err = f.users.Create(ctx, in, "admin")
	de := requireCode(t, err, domain.ErrCodeValidationFailed)
	assert.Contains(t, de.Fields, "username")
}

func TestWorkingHoursService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.hours.CreateShift(ctx, &domain.Shift{Name: "Bad", StartTime: "17:00", EndTime: "08:00"})
	requireCode(t, err, domain.ErrCodeValidationFailed)

	s, err := f.hours.CreateShift(ctx, &domain.Shift{Name: "Day", StartTime: "08:00", EndTime: "17:00", Active: true, IsOfficeHour: true})
	require.NoError(t, err)

	office, err := f.hours.OfficeHours(ctx)
	require.NoError(t, err)
	require.Len(t, office, 1)
	assert.Equal(t, s.ID, office[0].ID)

	_, err = f.hours.UpdateShift(ctx, &domain.Shift{ID: "sh-missing", Name: "x", StartTime: "08:00", EndTime: "09:00"})
	requireCode(t, err, domain.ErrCodeShiftNotFound)

	_, err = f.hours.CreateHoliday(ctx, &domain.Holiday{Name: "Tet", Date: "17/02/2026"})
	requireCode(t, err, domain.ErrCodeValidationFailed)

	err = f.hours.DeleteHoliday(ctx, "hd-missing")
	requireCode(t, err, domain.ErrCodeHolidayNotFound)
}

// failWrites makes every write of the given kind to table abort.
func failWrites(t *testing.T, db *sql.DB, kind, table string) {
	t.Helper()
	_, err := db.Exec(`CREATE TRIGGER fail_` + table + ` BEFORE ` + kind + ` ON ` + table + `
		BEGIN SELECT RAISE(ABORT, 'write refused'); END`)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestDeviceService_ReplaceIsAtomic(t *testing.T) {
	f := setup(t)
	oldDev := createDevice(t, f, "P-1", domain.DeviceActive, true)
	newDev := createDevice(t, f, "P-2", domain.DeviceAvailable, false)
	failWrites(t, f.db, "INSERT", "warranty_details")

	_, err := f.devices.Replace(context.Background(), oldDev.ID, service.ReplaceDeviceInput{NewDeviceID: newDev.ID}, "alice")
	requireCode(t, err, domain.ErrCodeInternalError)

	assert.Zero(t, countRows(t, f.db, "task_groups"))
	assert.Zero(t, countRows(t, f.db, "tasks"))
	assert.Zero(t, countRows(t, f.db, "installation_details"))
	assert.Empty(t, f.events.groups)
}

func TestDeviceService_FailedUpdateIsNotAudited(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := createDevice(t, f, "P-1", domain.DeviceActive, false)
	before := countRows(t, f.db, "audit_log")
	failWrites(t, f.db, "UPDATE", "devices")

	name := "Renamed"
	_, err := f.devices.Update(ctx, d.ID, service.UpdateDeviceInput{Name: &name}, "alice")
	require.Error(t, err)
	assert.Equal(t, before, countRows(t, f.db, "audit_log"))

	_, err = f.db.Exec("DROP TRIGGER fail_devices")
	require.NoError(t, err)
	_, err = f.devices.Update(ctx, d.ID, service.UpdateDeviceInput{Name: &name}, "alice")
	require.NoError(t, err)
	assert.Equal(t, before+1, countRows(t, f.db, "audit_log"))
}

func TestSparePartService_ImportIsAtomic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.parts.Import(ctx, []*domain.SparePart{
		{Name: "Bearing", Quantity: 10},
		{Name: "Belt", Quantity: -1},
		{Name: "Fuse", Quantity: 3},
	}, "alice")
	de := requireCode(t, err, domain.ErrCodeValidationFailed)
	details, ok := de.Context["details"].([]string)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "row 2 (Belt)")

	summary, err := f.parts.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalParts, "no row of a failed import is kept")
	assert.Zero(t, f.events.inventory)
}
