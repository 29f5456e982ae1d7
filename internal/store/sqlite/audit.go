package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
)

const auditColumns = "id, entity_type, entity_id, action, field, old_value, new_value, changed_at, changed_by"

// AuditRepository handles audit log persistence operations.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log creates an audit log entry.
func (r *AuditRepository) Log(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (entity_type, entity_id, action, field, old_value, new_value, changed_at, changed_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.EntityType,
		entry.EntityID,
		string(entry.Action),
		entry.Field,
		entry.OldValue,
		entry.NewValue,
		formatTime(entry.ChangedAt),
		entry.ChangedBy,
	)
	return err
}

// ListByEntity returns all audit entries for one entity, newest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+auditColumns+`
		FROM audit_log
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY changed_at DESC, id DESC
	`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// AuditQueryParams contains parameters for querying the audit log.
type AuditQueryParams struct {
	EntityType *string
	Action     *string
	ChangedBy  *string
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PerPage    int
}

// Query queries the audit log with filters and pagination.
func (r *AuditRepository) Query(ctx context.Context, params AuditQueryParams) ([]*domain.AuditEntry, int, error) {
	offset := (params.Page - 1) * params.PerPage

	// Build query with conditions
	baseQuery := "FROM audit_log WHERE 1=1"
	args := []interface{}{}

	if params.EntityType != nil {
		baseQuery += " AND entity_type = ?"
		args = append(args, *params.EntityType)
	}
	if params.Action != nil {
		baseQuery += " AND action = ?"
		args = append(args, *params.Action)
	}
	if params.ChangedBy != nil {
		baseQuery += " AND changed_by = ?"
		args = append(args, *params.ChangedBy)
	}
	if params.StartTime != nil {
		baseQuery += " AND changed_at >= ?"
		args = append(args, formatTime(*params.StartTime))
	}
	if params.EndTime != nil {
		baseQuery += " AND changed_at <= ?"
		args = append(args, formatTime(*params.EndTime))
	}

	// Count total
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectQuery := "SELECT " + auditColumns + " " + baseQuery + " ORDER BY changed_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, params.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := r.scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *AuditRepository) scanEntries(rows *sql.Rows) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var field, oldValue, newValue sql.NullString
		var action, changedAt string

		err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&action,
			&field,
			&oldValue,
			&newValue,
			&changedAt,
			&entry.ChangedBy,
		)
		if err != nil {
			return nil, err
		}

		entry.Action = domain.AuditAction(action)
		entry.Field = strPtr(field)
		entry.OldValue = strPtr(oldValue)
		entry.NewValue = strPtr(newValue)
		entry.ChangedAt = parseTime(changedAt)

		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
