package service

import (
	"context"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo  *sqlite.TaskRepository
	auditRepo *sqlite.AuditRepository
	events    Events
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo *sqlite.TaskRepository, auditRepo *sqlite.AuditRepository, events Events) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
		events:    eventsOrNop(events),
	}
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewTaskNotFoundError(id))
	}
	return task, nil
}

// UpdateTaskInput contains the input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Name         *string
	Description  *string
	Status       *domain.TaskStatus
	Priority     *int
	AssigneeName *string
	OrderIndex   *int
	StartTime    *time.Time
	ExpectedTime *time.Time
	EndTime      *time.Time
}

// Update applies the input to a task. Status changes are checked against
// the transition table; entering in_progress stamps StartTime and reaching
// completed stamps EndTime when the caller did not supply them.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput, actor string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewTaskNotFoundError(id))
	}

	now := time.Now().UTC()
	var changes []domain.AuditEntry
	change := func(action domain.AuditAction, field, oldValue, newValue string) {
		if oldValue == newValue {
			return
		}
		changes = append(changes, domain.NewAuditEntry(domain.EntityTask, id, action, actor).
			WithChange(field, oldValue, newValue))
	}

	if input.Status != nil && *input.Status != task.Status {
		if !task.Status.CanTransition(*input.Status) {
			return nil, domain.NewInvalidTransitionError(task.Status, *input.Status)
		}
		change(domain.ActionStatus, "status", string(task.Status), string(*input.Status))
		task.Status = *input.Status

		switch task.Status {
		case domain.StatusInProgress:
			if task.StartTime == nil && input.StartTime == nil {
				task.StartTime = &now
			}
		case domain.StatusCompleted:
			if task.EndTime == nil && input.EndTime == nil {
				task.EndTime = &now
			}
		}
	}

	if input.Name != nil {
		change(domain.ActionUpdate, "name", task.Name, *input.Name)
		task.Name = *input.Name
	}
	if input.Description != nil {
		change(domain.ActionUpdate, "description", derefStr(task.Description), *input.Description)
		task.Description = input.Description
	}
	if input.Priority != nil {
		change(domain.ActionUpdate, "priority", intToStr(task.Priority), intToStr(*input.Priority))
		task.Priority = *input.Priority
	}
	if input.AssigneeName != nil {
		change(domain.ActionUpdate, "assignee_name", derefStr(task.AssigneeName), *input.AssigneeName)
		task.AssigneeName = input.AssigneeName
	}
	if input.OrderIndex != nil {
		change(domain.ActionUpdate, "order_index", intToStr(task.OrderIndex), intToStr(*input.OrderIndex))
		task.OrderIndex = *input.OrderIndex
	}
	if input.StartTime != nil {
		change(domain.ActionUpdate, "start_time", timeToStr(task.StartTime), timeToStr(input.StartTime))
		task.StartTime = input.StartTime
	}
	if input.ExpectedTime != nil {
		change(domain.ActionUpdate, "expected_time", timeToStr(task.ExpectedTime), timeToStr(input.ExpectedTime))
		task.ExpectedTime = input.ExpectedTime
	}
	if input.EndTime != nil {
		change(domain.ActionUpdate, "end_time", timeToStr(task.EndTime), timeToStr(input.EndTime))
		task.EndTime = input.EndTime
	}

	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, notFoundOr(err, domain.NewTaskNotFoundError(id))
	}

	for i := range changes {
		changes[i].ChangedAt = now
		s.auditRepo.Log(ctx, &changes[i])
	}

	s.events.TaskGroupUpdated(task.TaskGroupID)
	return task, nil
}
