package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// DetailRepository persists the per-type detail records that hang off tasks.
type DetailRepository struct {
	db *sql.DB
}

// NewDetailRepository creates a new DetailRepository.
func NewDetailRepository(db *sql.DB) *DetailRepository {
	return &DetailRepository{db: db}
}

// GetInstallation retrieves the installation detail for a task.
func (r *DetailRepository) GetInstallation(ctx context.Context, taskID string) (*domain.InstallTaskDetail, error) {
	var d domain.InstallTaskDetail
	var oldDevice, newDevice, installedAt, notes sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT task_id, old_device_id, new_device_id, area, building, floor, room, installed_at, notes
		FROM installation_details WHERE task_id = ?
	`, taskID).Scan(&d.TaskID, &oldDevice, &newDevice, &d.Area, &d.Building, &d.Floor, &d.Room, &installedAt, &notes)
	if err != nil {
		return nil, err
	}

	d.OldDeviceID = strPtr(oldDevice)
	d.NewDeviceID = strPtr(newDevice)
	d.InstalledAt = parseTimePtr(installedAt)
	d.Notes = strPtr(notes)
	return &d, nil
}

// SaveInstallation inserts or replaces the installation detail for a task.
func (r *DetailRepository) SaveInstallation(ctx context.Context, d *domain.InstallTaskDetail) error {
	return saveInstallation(ctx, r.db, d)
}

func saveInstallation(ctx context.Context, ex execer, d *domain.InstallTaskDetail) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO installation_details (task_id, old_device_id, new_device_id, area, building, floor, room, installed_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			old_device_id = excluded.old_device_id,
			new_device_id = excluded.new_device_id,
			area = excluded.area,
			building = excluded.building,
			floor = excluded.floor,
			room = excluded.room,
			installed_at = excluded.installed_at,
			notes = excluded.notes
	`,
		d.TaskID, d.OldDeviceID, d.NewDeviceID, d.Area, d.Building, d.Floor, d.Room,
		formatTimePtr(d.InstalledAt), d.Notes,
	)
	return err
}

// GetWarranty retrieves the warranty detail for a task.
func (r *DetailRepository) GetWarranty(ctx context.Context, taskID string) (*domain.WarrantyTaskDetail, error) {
	var d domain.WarrantyTaskDetail
	var claimNumber, submittedAt, expectedReturn, returnedAt, resolution sql.NullString
	var claimStatus string

	err := r.db.QueryRowContext(ctx, `
		SELECT task_id, device_id, claim_number, service_center, issue_description, claim_status,
		       submitted_at, expected_return_at, returned_at, resolution
		FROM warranty_details WHERE task_id = ?
	`, taskID).Scan(
		&d.TaskID, &d.DeviceID, &claimNumber, &d.ServiceCenter, &d.IssueDescription, &claimStatus,
		&submittedAt, &expectedReturn, &returnedAt, &resolution,
	)
	if err != nil {
		return nil, err
	}

	d.ClaimNumber = strPtr(claimNumber)
	d.ClaimStatus = domain.ClaimStatus(claimStatus)
	d.SubmittedAt = parseTimePtr(submittedAt)
	d.ExpectedReturnAt = parseTimePtr(expectedReturn)
	d.ReturnedAt = parseTimePtr(returnedAt)
	d.Resolution = strPtr(resolution)
	return &d, nil
}

// SaveWarranty inserts or replaces the warranty detail for a task.
func (r *DetailRepository) SaveWarranty(ctx context.Context, d *domain.WarrantyTaskDetail) error {
	return saveWarranty(ctx, r.db, d)
}

func saveWarranty(ctx context.Context, ex execer, d *domain.WarrantyTaskDetail) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO warranty_details (task_id, device_id, claim_number, service_center, issue_description,
			claim_status, submitted_at, expected_return_at, returned_at, resolution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			device_id = excluded.device_id,
			claim_number = excluded.claim_number,
			service_center = excluded.service_center,
			issue_description = excluded.issue_description,
			claim_status = excluded.claim_status,
			submitted_at = excluded.submitted_at,
			expected_return_at = excluded.expected_return_at,
			returned_at = excluded.returned_at,
			resolution = excluded.resolution
	`,
		d.TaskID, d.DeviceID, d.ClaimNumber, d.ServiceCenter, d.IssueDescription, string(d.ClaimStatus),
		formatTimePtr(d.SubmittedAt), formatTimePtr(d.ExpectedReturnAt), formatTimePtr(d.ReturnedAt), d.Resolution,
	)
	return err
}

// GetRepair retrieves the repair detail for a task.
func (r *DetailRepository) GetRepair(ctx context.Context, taskID string) (*domain.RepairTaskDetail, error) {
	var d domain.RepairTaskDetail
	var notes, repairedAt sql.NullString
	var parts string

	err := r.db.QueryRowContext(ctx, `
		SELECT task_id, device_id, technician, diagnosis, notes, cost, parts, repaired_at
		FROM repair_details WHERE task_id = ?
	`, taskID).Scan(&d.TaskID, &d.DeviceID, &d.Technician, &d.Diagnosis, &notes, &d.Cost, &parts, &repairedAt)
	if err != nil {
		return nil, err
	}

	d.Notes = strPtr(notes)
	d.RepairedAt = parseTimePtr(repairedAt)
	if err := json.Unmarshal([]byte(parts), &d.Parts); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveRepair inserts or replaces the repair detail for a task.
func (r *DetailRepository) SaveRepair(ctx context.Context, d *domain.RepairTaskDetail) error {
	return saveRepair(ctx, r.db, d)
}

func saveRepair(ctx context.Context, ex execer, d *domain.RepairTaskDetail) error {
	parts := d.Parts
	if parts == nil {
		parts = []domain.RepairPart{}
	}
	encoded, err := json.Marshal(parts)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO repair_details (task_id, device_id, technician, diagnosis, notes, cost, parts, repaired_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			device_id = excluded.device_id,
			technician = excluded.technician,
			diagnosis = excluded.diagnosis,
			notes = excluded.notes,
			cost = excluded.cost,
			parts = excluded.parts,
			repaired_at = excluded.repaired_at
	`,
		d.TaskID, d.DeviceID, d.Technician, d.Diagnosis, d.Notes, d.Cost, string(encoded), formatTimePtr(d.RepairedAt),
	)
	return err
}
