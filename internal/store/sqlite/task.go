package sqlite

import (
	"context"
	"database/sql"

	"github.com/fixdesk/fixdesk/internal/domain"
)

const taskColumns = `id, task_group_id, name, description, type, status, priority, assignee_name,
	order_index, start_time, expected_time, end_time, created_at, updated_at`

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return insertTask(ctx, r.db, task)
}

func insertTask(ctx context.Context, ex execer, task *domain.Task) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.TaskGroupID,
		task.Name,
		task.Description,
		string(task.Type),
		string(task.Status),
		task.Priority,
		task.AssigneeName,
		task.OrderIndex,
		formatTimePtr(task.StartTime),
		formatTimePtr(task.ExpectedTime),
		formatTimePtr(task.EndTime),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	return err
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	return scanTask(row)
}

// ListByGroup returns a group's tasks ordered by order_index.
func (r *TaskRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE task_group_id = ?
		ORDER BY order_index ASC, created_at ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update updates a task's mutable fields.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, description = ?, status = ?, priority = ?, assignee_name = ?, order_index = ?,
		    start_time = ?, expected_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`,
		task.Name,
		task.Description,
		string(task.Status),
		task.Priority,
		task.AssigneeName,
		task.OrderIndex,
		formatTimePtr(task.StartTime),
		formatTimePtr(task.ExpectedTime),
		formatTimePtr(task.EndTime),
		formatTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var description, assignee, startTime, expectedTime, endTime sql.NullString
	var taskType, status, createdAt, updatedAt string

	err := row.Scan(
		&task.ID,
		&task.TaskGroupID,
		&task.Name,
		&description,
		&taskType,
		&status,
		&task.Priority,
		&assignee,
		&task.OrderIndex,
		&startTime,
		&expectedTime,
		&endTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(status)
	task.Description = strPtr(description)
	task.AssigneeName = strPtr(assignee)
	task.StartTime = parseTimePtr(startTime)
	task.ExpectedTime = parseTimePtr(expectedTime)
	task.EndTime = parseTimePtr(endTime)
	task.CreatedAt = parseTime(createdAt)
	task.UpdatedAt = parseTime(updatedAt)

	return &task, nil
}
