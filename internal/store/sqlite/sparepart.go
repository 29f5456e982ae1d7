package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fixdesk/fixdesk/internal/domain"
)

const sparePartColumns = `id, name, category, machine_type, quantity, min_threshold, unit, supplier,
	price, image_url, updated_at`

// SparePartFilter narrows an inventory listing. Empty fields match everything.
// Search is a case-insensitive substring of the name or supplier; it relies
// on the fold function the store registers on every connection.
type SparePartFilter struct {
	Search      string
	Category    string
	MachineType string
	Stock       domain.StockLevel
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where renders the filter as a SQL condition over the full inventory.
func (f SparePartFilter) where() (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}

	if s := strings.TrimSpace(f.Search); s != "" {
		clause += ` AND (fold(name) LIKE ? ESCAPE '\' OR fold(supplier) LIKE ? ESCAPE '\')`
		pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		clause += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.MachineType != "" {
		clause += " AND machine_type = ?"
		args = append(args, f.MachineType)
	}
	switch f.Stock {
	case domain.StockOutOfStock:
		clause += " AND quantity <= 0"
	case domain.StockLow:
		clause += " AND quantity > 0 AND quantity < min_threshold"
	case domain.StockOK:
		clause += " AND quantity > 0 AND quantity >= min_threshold"
	}
	return clause, args
}

// SparePartRepository handles spare part persistence operations.
type SparePartRepository struct {
	db *sql.DB
}

// NewSparePartRepository creates a new SparePartRepository.
func NewSparePartRepository(db *sql.DB) *SparePartRepository {
	return &SparePartRepository{db: db}
}

// Create creates a new spare part.
func (r *SparePartRepository) Create(ctx context.Context, p *domain.SparePart) error {
	return insertSparePart(ctx, r.db, p)
}

func insertSparePart(ctx context.Context, ex execer, p *domain.SparePart) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO spare_parts (`+sparePartColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, p.Category, p.MachineType, p.Quantity, p.MinThreshold, p.Unit, p.Supplier,
		p.Price, p.ImageURL, formatTime(p.UpdatedAt),
	)
	return err
}

// GetByID retrieves a spare part by its ID.
func (r *SparePartRepository) GetByID(ctx context.Context, id string) (*domain.SparePart, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sparePartColumns+" FROM spare_parts WHERE id = ?", id)
	return scanSparePart(row)
}

// GetByName retrieves a spare part by its unique name.
func (r *SparePartRepository) GetByName(ctx context.Context, name string) (*domain.SparePart, error) {
	return sparePartByName(ctx, r.db, name)
}

func sparePartByName(ctx context.Context, q querier, name string) (*domain.SparePart, error) {
	row := q.QueryRowContext(ctx, "SELECT "+sparePartColumns+" FROM spare_parts WHERE name = ?", name)
	return scanSparePart(row)
}

// List retrieves spare parts matching the filter, ordered by name.
func (r *SparePartRepository) List(ctx context.Context, filter SparePartFilter, page, perPage int) ([]*domain.SparePart, int, error) {
	offset := (page - 1) * perPage
	where, args := filter.where()

	// Count total
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM spare_parts"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sparePartColumns+" FROM spare_parts"+where+" ORDER BY name ASC, id ASC LIMIT ? OFFSET ?",
		append(args, perPage, offset)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	parts, err := scanSpareParts(rows)
	if err != nil {
		return nil, 0, err
	}
	return parts, total, nil
}

// All returns the whole inventory ordered by name.
func (r *SparePartRepository) All(ctx context.Context) ([]*domain.SparePart, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sparePartColumns+" FROM spare_parts ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpareParts(rows)
}

// Summary aggregates the whole inventory in a single query.
func (r *SparePartRepository) Summary(ctx context.Context) (*domain.InventorySummary, error) {
	var s domain.InventorySummary
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(CASE WHEN quantity > 0 AND quantity < min_threshold THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity <= 0 THEN 1 ELSE 0 END), 0)
		FROM spare_parts
	`).Scan(&s.TotalParts, &s.TotalStock, &s.LowStockCount, &s.OutOfStockCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update updates all mutable fields of a spare part.
func (r *SparePartRepository) Update(ctx context.Context, p *domain.SparePart) error {
	return updateSparePart(ctx, r.db, p)
}

func updateSparePart(ctx context.Context, ex execer, p *domain.SparePart) error {
	result, err := ex.ExecContext(ctx, `
		UPDATE spare_parts
		SET name = ?, category = ?, machine_type = ?, quantity = ?, min_threshold = ?, unit = ?,
		    supplier = ?, price = ?, image_url = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.Category, p.MachineType, p.Quantity, p.MinThreshold, p.Unit,
		p.Supplier, p.Price, p.ImageURL, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// UpsertByName inserts the part, or overwrites the existing part with the same
// name while keeping its ID. Returns true when a new row was created.
func (r *SparePartRepository) UpsertByName(ctx context.Context, p *domain.SparePart) (bool, error) {
	return upsertSparePart(ctx, r.db, p)
}

// RowError identifies the input row a batch write failed on. Row is 1-based.
type RowError struct {
	Row  int
	Name string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Name, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// UpsertAll upserts every part by name in one transaction and returns how
// many rows were created. If any row fails nothing is written and the error
// is a *RowError.
func (r *SparePartRepository) UpsertAll(ctx context.Context, parts []*domain.SparePart) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	created := 0
	for i, p := range parts {
		isNew, err := upsertSparePart(ctx, tx, p)
		if err != nil {
			return 0, &RowError{Row: i + 1, Name: p.Name, Err: err}
		}
		if isNew {
			created++
		}
	}
	return created, tx.Commit()
}

func upsertSparePart(ctx context.Context, q querier, p *domain.SparePart) (bool, error) {
	existing, err := sparePartByName(ctx, q, p.Name)
	if err == sql.ErrNoRows {
		return true, insertSparePart(ctx, q, p)
	}
	if err != nil {
		return false, err
	}
	p.ID = existing.ID
	if p.ImageURL == nil {
		p.ImageURL = existing.ImageURL
	}
	return false, updateSparePart(ctx, q, p)
}

func scanSpareParts(rows *sql.Rows) ([]*domain.SparePart, error) {
	var parts []*domain.SparePart
	for rows.Next() {
		p, err := scanSparePart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func scanSparePart(row scanner) (*domain.SparePart, error) {
	var p domain.SparePart
	var imageURL sql.NullString
	var updatedAt string

	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.MachineType, &p.Quantity, &p.MinThreshold, &p.Unit,
		&p.Supplier, &p.Price, &imageURL, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ImageURL = strPtr(imageURL)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
