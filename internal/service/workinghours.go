package service

import (
	"context"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
	"github.com/fixdesk/fixdesk/pkg/idgen"
)

// WorkingHoursService manages shifts and holidays.
type WorkingHoursService struct {
	repo *sqlite.WorkingHoursRepository
}

// NewWorkingHoursService creates a new WorkingHoursService.
func NewWorkingHoursService(repo *sqlite.WorkingHoursRepository) *WorkingHoursService {
	return &WorkingHoursService{repo: repo}
}

// Config returns the full working-hours configuration.
func (s *WorkingHoursService) Config(ctx context.Context) (*domain.WorkingHoursConfig, error) {
	shifts, err := s.repo.ListShifts(ctx)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &domain.WorkingHoursConfig{Shifts: shifts, Holidays: holidays}, nil
}

// OfficeHours returns the active office-hour shifts.
func (s *WorkingHoursService) OfficeHours(ctx context.Context) ([]*domain.Shift, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	shifts := cfg.OfficeHours()
	if shifts == nil {
		shifts = []*domain.Shift{}
	}
	return shifts, nil
}

// CreateShift validates and stores a new shift.
func (s *WorkingHoursService) CreateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if errs := shift.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	id, err := idgen.Generate(idgen.PrefixShift)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	shift.ID = id

	if err := s.repo.CreateShift(ctx, shift); err != nil {
		return nil, domain.NewInternalError(err)
	}
	return shift, nil
}

// UpdateShift validates and replaces an existing shift.
func (s *WorkingHoursService) UpdateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if _, err := s.repo.GetShift(ctx, shift.ID); err != nil {
		return nil, notFoundOr(err, domain.NewShiftNotFoundError(shift.ID))
	}
	if errs := shift.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}
	if err := s.repo.UpdateShift(ctx, shift); err != nil {
		return nil, notFoundOr(err, domain.NewShiftNotFoundError(shift.ID))
	}
	return shift, nil
}

// CreateHoliday validates and stores a holiday.
func (s *WorkingHoursService) CreateHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	fields := map[string]string{}
	if holiday.Name == "" {
		fields["name"] = "name is required"
	}
	if _, err := time.Parse(domain.DateLayout, holiday.Date); err != nil {
		fields["date"] = "date must be YYYY-MM-DD"
	}
	if len(fields) > 0 {
		return nil, domain.NewFieldValidationError(fields)
	}

	id, err := idgen.Generate(idgen.PrefixHoliday)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	holiday.ID = id

	if err := s.repo.CreateHoliday(ctx, holiday); err != nil {
		return nil, domain.NewInternalError(err)
	}
	return holiday, nil
}

// ListHolidays returns every holiday.
func (s *WorkingHoursService) ListHolidays(ctx context.Context) ([]*domain.Holiday, error) {
	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return holidays, nil
}

// DeleteHoliday removes a holiday.
func (s *WorkingHoursService) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.repo.DeleteHoliday(ctx, id); err != nil {
		return notFoundOr(err, domain.NewHolidayNotFoundError(id))
	}
	return nil
}
