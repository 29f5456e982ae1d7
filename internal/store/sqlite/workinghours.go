package sqlite

import (
	"context"
	"database/sql"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// WorkingHoursRepository stores shifts and holidays.
type WorkingHoursRepository struct {
	db *sql.DB
}

// NewWorkingHoursRepository creates a new WorkingHoursRepository.
func NewWorkingHoursRepository(db *sql.DB) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

// CreateShift creates a new shift.
func (r *WorkingHoursRepository) CreateShift(ctx context.Context, s *domain.Shift) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO shifts (id, name, start_time, end_time, active, is_office_hour) VALUES (?, ?, ?, ?, ?, ?)",
		s.ID, s.Name, s.StartTime, s.EndTime, boolToInt(s.Active), boolToInt(s.IsOfficeHour),
	)
	return err
}

// GetShift retrieves a shift by ID.
func (r *WorkingHoursRepository) GetShift(ctx context.Context, id string) (*domain.Shift, error) {
	return scanShift(r.db.QueryRowContext(ctx,
		"SELECT id, name, start_time, end_time, active, is_office_hour FROM shifts WHERE id = ?", id))
}

// UpdateShift updates a shift.
func (r *WorkingHoursRepository) UpdateShift(ctx context.Context, s *domain.Shift) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE shifts SET name = ?, start_time = ?, end_time = ?, active = ?, is_office_hour = ? WHERE id = ?",
		s.Name, s.StartTime, s.EndTime, boolToInt(s.Active), boolToInt(s.IsOfficeHour), s.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListShifts returns all shifts ordered by start time.
func (r *WorkingHoursRepository) ListShifts(ctx context.Context) ([]*domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, start_time, end_time, active, is_office_hour FROM shifts ORDER BY start_time ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// CreateHoliday creates a new holiday.
func (r *WorkingHoursRepository) CreateHoliday(ctx context.Context, h *domain.Holiday) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO holidays (id, name, date, active) VALUES (?, ?, ?, ?)",
		h.ID, h.Name, h.Date, boolToInt(h.Active),
	)
	return err
}

// DeleteHoliday deletes a holiday.
func (r *WorkingHoursRepository) DeleteHoliday(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ListHolidays returns all holidays ordered by date.
func (r *WorkingHoursRepository) ListHolidays(ctx context.Context) ([]*domain.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, date, active FROM holidays ORDER BY date ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []*domain.Holiday{}
	for rows.Next() {
		var h domain.Holiday
		var active int
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &active); err != nil {
			return nil, err
		}
		h.Active = active != 0
		holidays = append(holidays, &h)
	}
	return holidays, rows.Err()
}

func scanShift(row scanner) (*domain.Shift, error) {
	var s domain.Shift
	var active, office int
	if err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &active, &office); err != nil {
		return nil, err
	}
	s.Active = active != 0
	s.IsOfficeHour = office != 0
	return &s, nil
}
