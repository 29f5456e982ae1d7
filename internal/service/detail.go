package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// DetailService handles the per-type detail records of tasks.
type DetailService struct {
	taskRepo   *sqlite.TaskRepository
	detailRepo *sqlite.DetailRepository
	deviceRepo *sqlite.DeviceRepository
	auditRepo  *sqlite.AuditRepository
	events     Events
}

// NewDetailService creates a new DetailService.
func NewDetailService(
	taskRepo *sqlite.TaskRepository,
	detailRepo *sqlite.DetailRepository,
	deviceRepo *sqlite.DeviceRepository,
	auditRepo *sqlite.AuditRepository,
	events Events,
) *DetailService {
	return &DetailService{
		taskRepo:   taskRepo,
		detailRepo: detailRepo,
		deviceRepo: deviceRepo,
		auditRepo:  auditRepo,
		events:     eventsOrNop(events),
	}
}

// requireKind loads the task and checks that its type carries the wanted detail.
func (s *DetailService) requireKind(ctx context.Context, taskID string, kind domain.DetailKind) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, domain.NewTaskNotFoundError(taskID))
	}
	if got := task.Type.DetailKind(); got != kind {
		return nil, domain.NewValidationError([]string{
			fmt.Sprintf("task %s of type %s has no %s detail", taskID, task.Type, kind),
		})
	}
	return task, nil
}

// checkDevice returns a field error message when a referenced device is missing.
func (s *DetailService) checkDevice(ctx context.Context, fields map[string]string, field string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	_, err := s.deviceRepo.GetByID(ctx, *id)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		fields[field] = fmt.Sprintf("device %s does not exist", *id)
	default:
		return domain.NewInternalError(err)
	}
	return nil
}

// GetInstallation returns the installation detail of a task.
func (s *DetailService) GetInstallation(ctx context.Context, taskID string) (*domain.InstallTaskDetail, error) {
	if _, err := s.requireKind(ctx, taskID, domain.DetailInstallation); err != nil {
		return nil, err
	}
	d, err := s.detailRepo.GetInstallation(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDetailNotFoundError(domain.DetailInstallation, taskID))
	}
	return d, nil
}

// SaveInstallation stores the installation detail of a task.
func (s *DetailService) SaveInstallation(ctx context.Context, d *domain.InstallTaskDetail, actor string) (*domain.InstallTaskDetail, error) {
	task, err := s.requireKind(ctx, d.TaskID, domain.DetailInstallation)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if err := s.checkDevice(ctx, fields, "old_device_id", d.OldDeviceID); err != nil {
		return nil, err
	}
	if err := s.checkDevice(ctx, fields, "new_device_id", d.NewDeviceID); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, domain.NewFieldValidationError(fields)
	}

	if err := s.detailRepo.SaveInstallation(ctx, d); err != nil {
		return nil, domain.NewInternalError(err)
	}
	s.logDetail(ctx, task, actor)
	return d, nil
}

// GetWarranty returns the warranty detail of a task.
func (s *DetailService) GetWarranty(ctx context.Context, taskID string) (*domain.WarrantyTaskDetail, error) {
	if _, err := s.requireKind(ctx, taskID, domain.DetailWarranty); err != nil {
		return nil, err
	}
	d, err := s.detailRepo.GetWarranty(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDetailNotFoundError(domain.DetailWarranty, taskID))
	}
	return d, nil
}

// SaveWarranty stores the warranty detail of a task.
func (s *DetailService) SaveWarranty(ctx context.Context, d *domain.WarrantyTaskDetail, actor string) (*domain.WarrantyTaskDetail, error) {
	task, err := s.requireKind(ctx, d.TaskID, domain.DetailWarranty)
	if err != nil {
		return nil, err
	}
	if d.ClaimStatus == "" {
		d.ClaimStatus = domain.ClaimDraft
	}

	fields := map[string]string{}
	if !d.ClaimStatus.IsValid() {
		fields["claim_status"] = fmt.Sprintf("unknown claim status %q", d.ClaimStatus)
	}
	if err := s.checkDevice(ctx, fields, "device_id", &d.DeviceID); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, domain.NewFieldValidationError(fields)
	}

	if err := s.detailRepo.SaveWarranty(ctx, d); err != nil {
		return nil, domain.NewInternalError(err)
	}
	s.logDetail(ctx, task, actor)
	return d, nil
}

// ConfirmWarranty marks the warranty claim as confirmed and moves the device
// into warranty.
func (s *DetailService) ConfirmWarranty(ctx context.Context, taskID string, actor string) (*domain.WarrantyTaskDetail, error) {
	task, err := s.requireKind(ctx, taskID, domain.DetailWarranty)
	if err != nil {
		return nil, err
	}
	d, err := s.detailRepo.GetWarranty(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDetailNotFoundError(domain.DetailWarranty, taskID))
	}

	now := time.Now().UTC()
	old := d.ClaimStatus
	d.ClaimStatus = domain.ClaimConfirmed
	if d.SubmittedAt == nil {
		d.SubmittedAt = &now
	}
	if err := s.detailRepo.SaveWarranty(ctx, d); err != nil {
		return nil, domain.NewInternalError(err)
	}

	if device, err := s.deviceRepo.GetByID(ctx, d.DeviceID); err == nil && device.Status != domain.DeviceInWarranty {
		device.Status = domain.DeviceInWarranty
		device.UpdatedAt = now
		if err := s.deviceRepo.Update(ctx, device); err != nil {
			return nil, domain.NewInternalError(err)
		}
	}

	entry := domain.NewAuditEntry(domain.EntityTask, taskID, domain.ActionConfirm, actor).
		WithChange("claim_status", string(old), string(d.ClaimStatus))
	s.auditRepo.Log(ctx, &entry)

	s.events.TaskGroupUpdated(task.TaskGroupID)
	return d, nil
}

// GetRepair returns the repair detail of a task.
func (s *DetailService) GetRepair(ctx context.Context, taskID string) (*domain.RepairTaskDetail, error) {
	if _, err := s.requireKind(ctx, taskID, domain.DetailRepair); err != nil {
		return nil, err
	}
	d, err := s.detailRepo.GetRepair(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, domain.NewDetailNotFoundError(domain.DetailRepair, taskID))
	}
	return d, nil
}

// SaveRepair stores the repair detail of a task.
func (s *DetailService) SaveRepair(ctx context.Context, d *domain.RepairTaskDetail, actor string) (*domain.RepairTaskDetail, error) {
	task, err := s.requireKind(ctx, d.TaskID, domain.DetailRepair)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if d.Cost < 0 {
		fields["cost"] = "cost cannot be negative"
	}
	for _, p := range d.Parts {
		if p.Quantity <= 0 {
			fields["parts"] = "part quantities must be positive"
			break
		}
	}
	if err := s.checkDevice(ctx, fields, "device_id", &d.DeviceID); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, domain.NewFieldValidationError(fields)
	}

	if err := s.detailRepo.SaveRepair(ctx, d); err != nil {
		return nil, domain.NewInternalError(err)
	}
	s.logDetail(ctx, task, actor)
	return d, nil
}

func (s *DetailService) logDetail(ctx context.Context, task *domain.Task, actor string) {
	entry := domain.NewAuditEntry(domain.EntityTask, task.ID, domain.ActionUpdate, actor).
		WithField(task.Type.DetailKind().String() + "_detail")
	s.auditRepo.Log(ctx, &entry)
	s.events.TaskGroupUpdated(task.TaskGroupID)
}
