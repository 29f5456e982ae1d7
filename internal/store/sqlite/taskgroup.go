package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// TaskGroupRepository handles task group persistence. Groups are always
// returned with their tasks attached.
type TaskGroupRepository struct {
	db    *sql.DB
	tasks *TaskRepository
}

// NewTaskGroupRepository creates a new TaskGroupRepository.
func NewTaskGroupRepository(db *sql.DB) *TaskGroupRepository {
	return &TaskGroupRepository{db: db, tasks: NewTaskRepository(db)}
}

// TaskDetails are type-specific details stored together with a new group.
type TaskDetails struct {
	Installations []*domain.InstallTaskDetail
	Warranties    []*domain.WarrantyTaskDetail
	Repairs       []*domain.RepairTaskDetail
}

// Create inserts the group and all of its tasks in one transaction.
func (r *TaskGroupRepository) Create(ctx context.Context, group *domain.TaskGroup) error {
	return r.CreateWithDetails(ctx, group, TaskDetails{})
}

// CreateWithDetails inserts the group, its tasks and their details in one
// transaction. Nothing is written if any insert fails.
func (r *TaskGroupRepository) CreateWithDetails(ctx context.Context, group *domain.TaskGroup, details TaskDetails) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO task_groups (id, group_name, type, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.GroupName, string(group.Type), formatTime(group.CreatedAt),
	); err != nil {
		return err
	}

	for _, task := range group.Tasks {
		if err := insertTask(ctx, tx, task); err != nil {
			return err
		}
	}
	for _, d := range details.Installations {
		if err := saveInstallation(ctx, tx, d); err != nil {
			return err
		}
	}
	for _, d := range details.Warranties {
		if err := saveWarranty(ctx, tx, d); err != nil {
			return err
		}
	}
	for _, d := range details.Repairs {
		if err := saveRepair(ctx, tx, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a task group and its tasks.
func (r *TaskGroupRepository) GetByID(ctx context.Context, id string) (*domain.TaskGroup, error) {
	var group domain.TaskGroup
	var groupType, createdAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, group_name, type, created_at FROM task_groups WHERE id = ?", id,
	).Scan(&group.ID, &group.GroupName, &groupType, &createdAt)
	if err != nil {
		return nil, err
	}
	group.Type = domain.GroupType(groupType)
	group.CreatedAt = parseTime(createdAt)

	tasks, err := r.tasks.ListByGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Tasks = tasks
	return &group, nil
}

// List retrieves task groups, newest first, with optional type filter.
func (r *TaskGroupRepository) List(ctx context.Context, groupType *domain.GroupType, page, perPage int) ([]*domain.TaskGroup, int, error) {
	offset := (page - 1) * perPage

	where := ""
	args := []interface{}{}
	if groupType != nil {
		where = " WHERE type = ?"
		args = append(args, string(*groupType))
	}

	// Count total
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM task_groups"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, group_name, type, created_at FROM task_groups"+where+
			" ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?",
		append(args, perPage, offset)...,
	)
	if err != nil {
		return nil, 0, err
	}

	var groups []*domain.TaskGroup
	for rows.Next() {
		var group domain.TaskGroup
		var typ, createdAt string
		if err := rows.Scan(&group.ID, &group.GroupName, &typ, &createdAt); err != nil {
			rows.Close()
			return nil, 0, err
		}
		group.Type = domain.GroupType(typ)
		group.CreatedAt = parseTime(createdAt)
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	// Attach tasks once the group cursor is closed.
	for _, group := range groups {
		tasks, err := r.tasks.ListByGroup(ctx, group.ID)
		if err != nil {
			return nil, 0, err
		}
		group.Tasks = tasks
	}

	return groups, total, nil
}

// Delete deletes a task group; its tasks and details cascade.
func (r *TaskGroupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM task_groups WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ApplySuggested promotes every suggested task of the group to pending in a
// single statement and returns the IDs that changed.
func (r *TaskGroupRepository) ApplySuggested(ctx context.Context, groupID string, now time.Time) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM tasks WHERE task_group_id = ? AND status = ? ORDER BY order_index",
		groupID, string(domain.StatusSuggested),
	)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()

	if len(ids) == 0 {
		return nil, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET status = ?, updated_at = ? WHERE task_group_id = ? AND status = ?",
		string(domain.StatusPending), formatTime(now), groupID, string(domain.StatusSuggested),
	); err != nil {
		return nil, err
	}

	return ids, tx.Commit()
}
