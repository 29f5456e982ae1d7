package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
	"github.com/fixdesk/fixdesk/pkg/idgen"
)

// DeviceService handles device business logic, including the replacement
// workflow that turns a failed device into a group of suggested tasks.
type DeviceService struct {
	deviceRepo *sqlite.DeviceRepository
	groupRepo  *sqlite.TaskGroupRepository
	auditRepo  *sqlite.AuditRepository
	events     Events
}

// NewDeviceService creates a new DeviceService.
func NewDeviceService(
	deviceRepo *sqlite.DeviceRepository,
	groupRepo *sqlite.TaskGroupRepository,
	auditRepo *sqlite.AuditRepository,
	events Events,
) *DeviceService {
	return &DeviceService{
		deviceRepo: deviceRepo,
		groupRepo:  groupRepo,
		auditRepo:  auditRepo,
		events:     eventsOrNop(events),
	}
}

// CreateDeviceInput contains the input for registering a device.
type CreateDeviceInput struct {
	Name              string
	Code              string
	Model             string
	Manufacturer      string
	Status            *domain.DeviceStatus
	UnderWarranty     bool
	WarrantyExpiresAt *time.Time
	Area              string
	Building          string
	Floor             string
	Room              string
}

// Create registers a new device. Device codes are unique per site.
func (s *DeviceService) Create(ctx context.Context, input CreateDeviceInput, actor string) (*domain.Device, error) {
	id, err := idgen.Generate(idgen.PrefixDevice)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	now := time.Now().UTC()
	device := &domain.Device{
		ID:                id,
		Name:              input.Name,
		Code:              input.Code,
		Model:             input.Model,
		Manufacturer:      input.Manufacturer,
		Status:            domain.DeviceActive,
		UnderWarranty:     input.UnderWarranty,
		WarrantyExpiresAt: input.WarrantyExpiresAt,
		Area:              input.Area,
		Building:          input.Building,
		Floor:             input.Floor,
		Room:              input.Room,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.Status != nil {
		device.Status = *input.Status
	}

	if err := s.deviceRepo.Create(ctx, device); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewFieldValidationError(map[string]string{
				"code": fmt.Sprintf("device code %s is already in use", input.Code),
			})
		}
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(domain.EntityDevice, id, domain.ActionCreate, actor)
	s.auditRepo.Log(ctx, &entry)
	return device, nil
}

// Get retrieves a device by ID.
func (s *DeviceService) Get(ctx context.Context, id string) (*domain.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDeviceNotFoundError(id))
	}
	return device, nil
}

// ListDevicesInput contains the input for listing devices.
type ListDevicesInput struct {
	Status  *domain.DeviceStatus
	Page    int
	PerPage int
}

// List retrieves devices with pagination.
func (s *DeviceService) List(ctx context.Context, input ListDevicesInput) ([]*domain.Device, int, error) {
	devices, total, err := s.deviceRepo.List(ctx, input.Status, input.Page, input.PerPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return devices, total, nil
}

// UpdateDeviceInput contains the input for updating a device. Nil fields are left unchanged.
type UpdateDeviceInput struct {
	Name              *string
	Model             *string
	Manufacturer      *string
	Status            *domain.DeviceStatus
	UnderWarranty     *bool
	WarrantyExpiresAt *time.Time
	Area              *string
	Building          *string
	Floor             *string
	Room              *string
}

// Update updates a device.
func (s *DeviceService) Update(ctx context.Context, id string, input UpdateDeviceInput, actor string) (*domain.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDeviceNotFoundError(id))
	}

	now := time.Now().UTC()
	var changes []domain.AuditEntry
	setStr := func(field string, dst *string, v *string) {
		if v == nil || *v == *dst {
			return
		}
		changes = append(changes, domain.NewAuditEntry(domain.EntityDevice, id, domain.ActionUpdate, actor).WithChange(field, *dst, *v))
		*dst = *v
	}

	setStr("name", &device.Name, input.Name)
	setStr("model", &device.Model, input.Model)
	setStr("manufacturer", &device.Manufacturer, input.Manufacturer)
	setStr("area", &device.Area, input.Area)
	setStr("building", &device.Building, input.Building)
	setStr("floor", &device.Floor, input.Floor)
	setStr("room", &device.Room, input.Room)
	if input.Status != nil {
		status := string(device.Status)
		setStr("status", &status, (*string)(input.Status))
		device.Status = domain.DeviceStatus(status)
	}
	if input.UnderWarranty != nil {
		device.UnderWarranty = *input.UnderWarranty
	}
	if input.WarrantyExpiresAt != nil {
		device.WarrantyExpiresAt = input.WarrantyExpiresAt
	}
	device.UpdatedAt = now

	if err := s.deviceRepo.Update(ctx, device); err != nil {
		return nil, notFoundOr(err, domain.NewDeviceNotFoundError(id))
	}
	for i := range changes {
		s.auditRepo.Log(ctx, &changes[i])
	}
	return device, nil
}

// ReplaceDeviceInput contains the input for replacing a device.
type ReplaceDeviceInput struct {
	NewDeviceID string
	Reason      string
}

// Replace proposes the replacement of a device by another one. The result is
// a replacement task group whose tasks are all suggested: uninstall the old
// device, install the new one, then send the old one to warranty when it is
// still covered or to repair otherwise. Nothing happens to the devices until
// the suggestions are applied and worked.
func (s *DeviceService) Replace(ctx context.Context, id string, input ReplaceDeviceInput, actor string) (*domain.TaskGroup, error) {
	oldDevice, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDeviceNotFoundError(id))
	}
	newDevice, err := s.deviceRepo.GetByID(ctx, input.NewDeviceID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewInternalError(err)
		}
		return nil, domain.NewFieldValidationError(map[string]string{
			"new_device_id": fmt.Sprintf("device %s does not exist", input.NewDeviceID),
		})
	}
	if newDevice.ID == oldDevice.ID {
		return nil, domain.NewFieldValidationError(map[string]string{
			"new_device_id": "a device cannot replace itself",
		})
	}
	if newDevice.Status != domain.DeviceAvailable {
		return nil, domain.NewFieldValidationError(map[string]string{
			"new_device_id": fmt.Sprintf("device %s is %s, not available", newDevice.Code, newDevice.Status),
		})
	}

	now := time.Now().UTC()
	groupID, err := idgen.Generate(idgen.PrefixTaskGroup)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	followUp := domain.TypeRepair
	followUpName := fmt.Sprintf("Repair %s", oldDevice.Code)
	if oldDevice.WarrantyValid(now) {
		followUp = domain.TypeWarrantySubmission
		followUpName = fmt.Sprintf("Submit %s for warranty", oldDevice.Code)
	}

	steps := []struct {
		name     string
		taskType domain.TaskType
	}{
		{fmt.Sprintf("Uninstall %s", oldDevice.Code), domain.TypeUninstallation},
		{fmt.Sprintf("Install %s", newDevice.Code), domain.TypeInstallation},
		{followUpName, followUp},
	}

	group := &domain.TaskGroup{
		ID:        groupID,
		GroupName: fmt.Sprintf("Replace %s with %s", oldDevice.Code, newDevice.Code),
		Type:      domain.GroupReplacement,
		CreatedAt: now,
	}
	var reason *string
	if r := strings.TrimSpace(input.Reason); r != "" {
		reason = &r
	}
	for i, step := range steps {
		taskID, err := idgen.Generate(idgen.PrefixTask)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		group.Tasks = append(group.Tasks, &domain.Task{
			ID:          taskID,
			TaskGroupID: groupID,
			Name:        step.name,
			Description: reason,
			Type:        step.taskType,
			Status:      domain.StatusSuggested,
			Priority:    domain.PriorityNormal,
			OrderIndex:  i + 1,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	details := replacementDetails(group, oldDevice, newDevice, input.Reason)
	if err := s.groupRepo.CreateWithDetails(ctx, group, details); err != nil {
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(domain.EntityDevice, id, domain.ActionReplace, actor).
		WithChange("replacement", oldDevice.ID, newDevice.ID)
	s.auditRepo.Log(ctx, &entry)

	s.events.TaskGroupUpdated(groupID)
	return group, nil
}

// replacementDetails prefills the details of the replacement tasks from
// the two devices.
func replacementDetails(group *domain.TaskGroup, oldDevice, newDevice *domain.Device, reason string) sqlite.TaskDetails {
	var details sqlite.TaskDetails
	for _, task := range group.Tasks {
		switch task.Type.DetailKind() {
		case domain.DetailInstallation:
			oldID, newID := oldDevice.ID, newDevice.ID
			details.Installations = append(details.Installations, &domain.InstallTaskDetail{
				TaskID:      task.ID,
				OldDeviceID: &oldID,
				NewDeviceID: &newID,
				Area:        oldDevice.Area,
				Building:    oldDevice.Building,
				Floor:       oldDevice.Floor,
				Room:        oldDevice.Room,
			})
		case domain.DetailWarranty:
			details.Warranties = append(details.Warranties, &domain.WarrantyTaskDetail{
				TaskID:           task.ID,
				DeviceID:         oldDevice.ID,
				IssueDescription: reason,
				ClaimStatus:      domain.ClaimDraft,
			})
		case domain.DetailRepair:
			details.Repairs = append(details.Repairs, &domain.RepairTaskDetail{
				TaskID:    task.ID,
				DeviceID:  oldDevice.ID,
				Diagnosis: reason,
			})
		case domain.DetailNone:
		}
	}
	return details
}

// ConfirmAvailability confirms a device is ready for use and marks it available.
func (s *DeviceService) ConfirmAvailability(ctx context.Context, id string, actor string) (*domain.Device, error) {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDeviceNotFoundError(id))
	}
	if device.Status == domain.DeviceDecommissioned {
		return nil, domain.NewValidationError([]string{"a decommissioned device cannot be made available"})
	}

	old := device.Status
	device.Status = domain.DeviceAvailable
	device.UpdatedAt = time.Now().UTC()
	if err := s.deviceRepo.Update(ctx, device); err != nil {
		return nil, notFoundOr(err, domain.NewDeviceNotFoundError(id))
	}

	entry := domain.NewAuditEntry(domain.EntityDevice, id, domain.ActionConfirm, actor).
		WithChange("status", string(old), string(device.Status))
	s.auditRepo.Log(ctx, &entry)
	return device, nil
}
