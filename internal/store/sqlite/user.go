package sqlite

import (
	"context"
	"database/sql"

	"github.com/fixdesk/fixdesk/internal/domain"
)

const userColumns = "id, username, full_name, email, phone, role, active, password_hash, created_at"

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID, u.Username, u.FullName, u.Email, u.Phone, string(u.Role), boolToInt(u.Active),
		u.PasswordHash, formatTime(u.CreatedAt),
	)
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// ExistsUsername reports whether a username is already taken.
func (r *UserRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&n)
	return n > 0, err
}

// List retrieves users with optional role filter and pagination.
func (r *UserRepository) List(ctx context.Context, role *domain.Role, page, perPage int) ([]*domain.User, int, error) {
	offset := (page - 1) * perPage

	where := ""
	args := []interface{}{}
	if role != nil {
		where = " WHERE role = ?"
		args = append(args, string(*role))
	}

	// Count total
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users"+where+" ORDER BY username ASC LIMIT ? OFFSET ?",
		append(args, perPage, offset)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var role, createdAt string
	var active int

	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.Phone, &role, &active, &u.PasswordHash, &createdAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.Active = active != 0
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}
