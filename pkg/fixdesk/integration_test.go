package fixdesk_test

import (
	"bytes"
	"context"
	"net"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/fixdesk/internal/api"
	"github.com/fixdesk/fixdesk/internal/handoff"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/store"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

// startServer runs the real API against a temporary site directory.
func startServer(t *testing.T) *fixdesk.Client {
	t.Helper()

	manager, err := store.NewManager(t.TempDir())
	require.NoError(t, err)
	hub := live.NewHub(nil)
	handoffs := handoff.NewMemoryStore(handoff.DefaultTTL)

	srv := httptest.NewServer(api.NewRouter(api.Options{Manager: manager, Hub: hub, Handoff: handoffs}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		handoffs.Close()
		manager.Close()
	})

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := fixdesk.NewClient(
		fixdesk.WithHost(host),
		fixdesk.WithPort(port),
		fixdesk.WithSite("plant-a"),
		fixdesk.WithActor("alice@desk"),
	)
	require.NoError(t, err)
	return client
}

func ptr[T any](v T) *T { return &v }

func TestTaskGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	group, err := client.CreateTaskGroup(ctx, fixdesk.NewTaskGroup{
		GroupName: "Line 3 maintenance",
		Type:      fixdesk.GroupRepair,
		Tasks: []fixdesk.NewTask{
			{Name: "Inspect", Type: fixdesk.TypeRepair, Status: ptr(fixdesk.StatusSuggested)},
			{Name: "Order parts", Type: fixdesk.TypeStockOut, Status: ptr(fixdesk.StatusSuggested)},
			{Name: "Report", Type: fixdesk.TypeRepair},
		},
	})
	require.NoError(t, err)
	require.Len(t, group.Tasks, 3)

	applied, err := client.ApplySuggested(ctx, group.ID)
	require.NoError(t, err)
	for _, task := range applied.Tasks {
		assert.Equal(t, fixdesk.StatusPending, task.Status, task.Name)
	}

	task := applied.Tasks[0]
	_, err = client.UpdateTask(ctx, task.ID, fixdesk.WithStatus(fixdesk.StatusCompleted))
	assert.True(t, fixdesk.IsInvalidTransition(err), "got %v", err)

	updated, err := client.UpdateTask(ctx, task.ID, fixdesk.WithStatus(fixdesk.StatusInProgress), fixdesk.WithAssignee("Binh"))
	require.NoError(t, err)
	assert.Equal(t, fixdesk.StatusInProgress, updated.Status)
	require.NotNil(t, updated.AssigneeName)
	assert.Equal(t, "Binh", *updated.AssigneeName)

	history, err := client.GetTaskHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	list, err := client.ListTaskGroups(ctx, fixdesk.TaskGroupFilter{Type: fixdesk.GroupRepair})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Pagination.Total)

	require.NoError(t, client.DeleteTaskGroup(ctx, group.ID))
	_, err = client.GetTaskGroup(ctx, group.ID)
	assert.True(t, fixdesk.IsNotFound(err), "got %v", err)
}

func TestReplaceDeviceAndDetails(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	oldDevice, err := client.CreateDevice(ctx, fixdesk.NewDevice{Name: "Pump", Code: "P-1", Area: "North"})
	require.NoError(t, err)
	newDevice, err := client.CreateDevice(ctx, fixdesk.NewDevice{Name: "Pump", Code: "P-2", Status: ptr(fixdesk.DeviceAvailable)})
	require.NoError(t, err)

	_, err = client.ReplaceDevice(ctx, oldDevice.ID, oldDevice.ID, "")
	assert.Contains(t, fixdesk.FieldErrors(err), "new_device_id")

	group, err := client.ReplaceDevice(ctx, oldDevice.ID, newDevice.ID, "worn seals")
	require.NoError(t, err)
	assert.Equal(t, fixdesk.GroupReplacement, group.Type)

	var install *fixdesk.Task
	for _, task := range group.Tasks {
		assert.Equal(t, fixdesk.StatusSuggested, task.Status)
		if task.Type.DetailKind() == fixdesk.DetailInstallation {
			install = task
		}
	}
	require.NotNil(t, install)

	saved, err := client.PutInstallationDetail(ctx, &fixdesk.InstallTaskDetail{
		TaskID:      install.ID,
		OldDeviceID: &oldDevice.ID,
		NewDeviceID: &newDevice.ID,
		Area:        "North",
	})
	require.NoError(t, err)
	assert.Equal(t, install.ID, saved.TaskID)

	got, err := client.GetInstallationDetail(ctx, install.ID)
	require.NoError(t, err)
	assert.Equal(t, newDevice.ID, *got.NewDeviceID)

	_, err = client.GetRepairDetail(ctx, install.ID)
	assert.True(t, fixdesk.IsValidationFailed(err), "an installation task has no repair detail, got %v", err)
}

func TestInventoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	for i, qty := range []int{0, 2, 10} {
		_, err := client.CreateSparePart(ctx, fixdesk.SparePartInput{
			Name:         ptr("Bearing " + strconv.Itoa(i)),
			Category:     ptr("mechanical"),
			Quantity:     ptr(qty),
			MinThreshold: ptr(5),
		})
		require.NoError(t, err)
	}

	summary, err := client.InventorySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixdesk.InventorySummary{TotalParts: 3, TotalStock: 12, LowStockCount: 1, OutOfStockCount: 1}, *summary)

	low, err := client.ListSpareParts(ctx, fixdesk.SparePartFilter{Stock: fixdesk.StockLow})
	require.NoError(t, err)
	require.Len(t, low.Parts, 1)
	assert.Equal(t, fixdesk.StockLow, low.Parts[0].StockLevel())

	var workbook bytes.Buffer
	require.NoError(t, client.ExportSpareParts(ctx, &workbook))
	assert.NotZero(t, workbook.Len())

	result, err := client.ImportSpareParts(ctx, "inventory.xlsx", &workbook)
	require.NoError(t, err)
	assert.Equal(t, fixdesk.ImportResult{Created: 0, Updated: 3}, *result)
}

func TestOpenPartHandoff(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	signal, err := client.ConsumeOpenPart(ctx)
	require.NoError(t, err)
	assert.Nil(t, signal)

	_, err = client.PutOpenPart(ctx, "sp-1")
	require.NoError(t, err)

	signal, err = client.ConsumeOpenPart(ctx)
	require.NoError(t, err)
	require.NotNil(t, signal)
	assert.Equal(t, "sp-1", signal.PartID)

	signal, err = client.ConsumeOpenPart(ctx)
	require.NoError(t, err)
	assert.Nil(t, signal, "a hand-off is consumed once")
}

func TestUsersAndWorkingHours(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	_, err := client.CreateUser(ctx, fixdesk.NewUser{Username: "binh", FullName: "Binh", Role: fixdesk.RoleTechnician, Phone: "123", Password: "weak"})
	fields := fixdesk.FieldErrors(err)
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "password")

	user, err := client.CreateUser(ctx, fixdesk.NewUser{
		Username: "binh", FullName: "Binh", Role: fixdesk.RoleTechnician,
		Phone: "0901234567", Password: "Secret123",
	})
	require.NoError(t, err)

	_, err = client.CreateUser(ctx, fixdesk.NewUser{Username: "binh", FullName: "Other", Role: fixdesk.RoleStaff, Password: "Secret123"})
	assert.Contains(t, fixdesk.FieldErrors(err), "username")

	users, err := client.ListUsers(ctx, fixdesk.UserFilter{Role: fixdesk.RoleTechnician})
	require.NoError(t, err)
	require.Len(t, users.Users, 1)
	assert.Equal(t, user.ID, users.Users[0].ID)

	_, err = client.CreateShift(ctx, fixdesk.ShiftInput{Name: "Day", StartTime: "08:00", EndTime: "17:00", IsOfficeHour: true})
	require.NoError(t, err)
	holiday, err := client.CreateHoliday(ctx, fixdesk.HolidayInput{Name: "New Year", Date: "2026-01-01"})
	require.NoError(t, err)

	office, err := client.OfficeHours(ctx)
	require.NoError(t, err)
	assert.Len(t, office, 1)

	require.NoError(t, client.DeleteHoliday(ctx, holiday.ID))
	cfg, err := client.WorkingHours(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Shifts, 1)
	assert.Empty(t, cfg.Holidays)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	_, err := client.Subscribe(ctx, "", fixdesk.RoleStaff)
	assert.Contains(t, fixdesk.FieldErrors(err), "token")

	sub, err := client.Subscribe(ctx, "session-1", fixdesk.RoleTechnician)
	require.NoError(t, err)
	defer sub.Close()

	// Give the hub a moment to register the connection before publishing.
	time.Sleep(100 * time.Millisecond)

	_, err = client.Notify(ctx, "managers only", fixdesk.RoleManager)
	require.NoError(t, err)
	_, err = client.Notify(ctx, "shift change")
	require.NoError(t, err)

	select {
	case evt := <-sub.Events():
		assert.Equal(t, fixdesk.EventNotificationReceived, evt.Type)
		assert.Equal(t, "shift change", evt.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	require.NoError(t, sub.Close())
	for range sub.Events() {
	}
	assert.NoError(t, sub.Err())
}

func TestSubscribe_EndsWithContext(t *testing.T) {
	client := startServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := client.Subscribe(ctx, "session-2", fixdesk.RoleStaff)
	require.NoError(t, err)
	defer sub.Close()
	time.Sleep(100 * time.Millisecond)

	cancel()

	closed := make(chan struct{})
	go func() {
		for range sub.Events() {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("events still open after the context was cancelled")
	}
	assert.ErrorIs(t, sub.Err(), context.Canceled)

	_, err = client.Notify(context.Background(), "hello")
	require.NoError(t, err)
	_, ok := <-sub.Events()
	assert.False(t, ok)
}
