package sqlite

import (
	"context"
	"database/sql"

	"github.com/fixdesk/fixdesk/internal/domain"
)

const deviceColumns = `id, name, code, model, manufacturer, status, under_warranty, warranty_expires_at,
	area, building, floor, room, created_at, updated_at`

// DeviceRepository handles device persistence operations.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new DeviceRepository.
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create creates a new device.
func (r *DeviceRepository) Create(ctx context.Context, d *domain.Device) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (`+deviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID, d.Name, d.Code, d.Model, d.Manufacturer, string(d.Status),
		boolToInt(d.UnderWarranty), formatTimePtr(d.WarrantyExpiresAt),
		d.Area, d.Building, d.Floor, d.Room,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	return err
}

// GetByID retrieves a device by its ID.
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+deviceColumns+" FROM devices WHERE id = ?", id)
	return scanDevice(row)
}

// List retrieves devices with optional status filter and pagination.
func (r *DeviceRepository) List(ctx context.Context, status *domain.DeviceStatus, page, perPage int) ([]*domain.Device, int, error) {
	offset := (page - 1) * perPage

	where := ""
	args := []interface{}{}
	if status != nil {
		where = " WHERE status = ?"
		args = append(args, string(*status))
	}

	// Count total
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM devices"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+deviceColumns+" FROM devices"+where+" ORDER BY code ASC LIMIT ? OFFSET ?",
		append(args, perPage, offset)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var devices []*domain.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, err
		}
		devices = append(devices, d)
	}
	return devices, total, rows.Err()
}

// Update updates all mutable fields of a device.
func (r *DeviceRepository) Update(ctx context.Context, d *domain.Device) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE devices
		SET name = ?, code = ?, model = ?, manufacturer = ?, status = ?, under_warranty = ?,
		    warranty_expires_at = ?, area = ?, building = ?, floor = ?, room = ?, updated_at = ?
		WHERE id = ?
	`,
		d.Name, d.Code, d.Model, d.Manufacturer, string(d.Status), boolToInt(d.UnderWarranty),
		formatTimePtr(d.WarrantyExpiresAt), d.Area, d.Building, d.Floor, d.Room,
		formatTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func scanDevice(row scanner) (*domain.Device, error) {
	var d domain.Device
	var status, createdAt, updatedAt string
	var underWarranty int
	var expires sql.NullString

	err := row.Scan(
		&d.ID, &d.Name, &d.Code, &d.Model, &d.Manufacturer, &status, &underWarranty, &expires,
		&d.Area, &d.Building, &d.Floor, &d.Room, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Status = domain.DeviceStatus(status)
	d.UnderWarranty = underWarranty != 0
	d.WarrantyExpiresAt = parseTimePtr(expires)
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}
