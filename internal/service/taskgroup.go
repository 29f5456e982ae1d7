package service

import (
	"context"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
	"github.com/fixdesk/fixdesk/pkg/idgen"
)

// TaskGroupService handles task group business logic.
type TaskGroupService struct {
	groupRepo *sqlite.TaskGroupRepository
	auditRepo *sqlite.AuditRepository
	events    Events
}

// NewTaskGroupService creates a new TaskGroupService.
func NewTaskGroupService(groupRepo *sqlite.TaskGroupRepository, auditRepo *sqlite.AuditRepository, events Events) *TaskGroupService {
	return &TaskGroupService{
		groupRepo: groupRepo,
		auditRepo: auditRepo,
		events:    eventsOrNop(events),
	}
}

// CreateTaskInput describes one task of a new group.
type CreateTaskInput struct {
	Name         string
	Description  *string
	Type         domain.TaskType
	Status       *domain.TaskStatus
	Priority     *int
	AssigneeName *string
	OrderIndex   *int
	ExpectedTime *time.Time
}

// CreateTaskGroupInput contains the input for creating a task group.
type CreateTaskGroupInput struct {
	GroupName string
	Type      domain.GroupType
	Tasks     []CreateTaskInput
}

// Create creates a task group with its tasks. Tasks without an explicit
// order index are ordered by their position in the input.
func (s *TaskGroupService) Create(ctx context.Context, input CreateTaskGroupInput, actor string) (*domain.TaskGroup, error) {
	id, err := idgen.Generate(idgen.PrefixTaskGroup)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	now := time.Now().UTC()
	group := &domain.TaskGroup{
		ID:        id,
		GroupName: input.GroupName,
		Type:      input.Type,
		CreatedAt: now,
	}

	for i, in := range input.Tasks {
		taskID, err := idgen.Generate(idgen.PrefixTask)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}

		taskType, _ := domain.ParseTaskType(string(in.Type))
		task := &domain.Task{
			ID:           taskID,
			TaskGroupID:  id,
			Name:         in.Name,
			Description:  in.Description,
			Type:         taskType,
			Status:       domain.StatusPending,
			Priority:     domain.PriorityNormal,
			AssigneeName: in.AssigneeName,
			OrderIndex:   i + 1,
			ExpectedTime: in.ExpectedTime,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if in.Status != nil {
			task.Status = *in.Status
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.OrderIndex != nil {
			task.OrderIndex = *in.OrderIndex
		}
		group.Tasks = append(group.Tasks, task)
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, domain.NewInternalError(err)
	}
	domain.SortTasks(group.Tasks)

	entry := domain.NewAuditEntry(domain.EntityTaskGroup, id, domain.ActionCreate, actor)
	s.auditRepo.Log(ctx, &entry)

	s.events.TaskGroupUpdated(id)
	return group, nil
}

// Get retrieves a task group with its tasks sorted by order index.
func (s *TaskGroupService) Get(ctx context.Context, id string) (*domain.TaskGroup, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewTaskGroupNotFoundError(id))
	}
	domain.SortTasks(group.Tasks)
	return group, nil
}

// ListTaskGroupsInput contains the input for listing task groups.
type ListTaskGroupsInput struct {
	Type    *domain.GroupType
	Page    int
	PerPage int
}

// List retrieves task groups with pagination.
func (s *TaskGroupService) List(ctx context.Context, input ListTaskGroupsInput) ([]*domain.TaskGroup, int, error) {
	groups, total, err := s.groupRepo.List(ctx, input.Type, input.Page, input.PerPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	for _, g := range groups {
		domain.SortTasks(g.Tasks)
	}
	return groups, total, nil
}

// Delete deletes a task group and everything attached to it.
func (s *TaskGroupService) Delete(ctx context.Context, id string, actor string) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, domain.NewTaskGroupNotFoundError(id))
	}

	entry := domain.NewAuditEntry(domain.EntityTaskGroup, id, domain.ActionDelete, actor)
	s.auditRepo.Log(ctx, &entry)

	s.events.TaskGroupUpdated(id)
	return nil
}

// ApplySuggested promotes every suggested task of the group to pending in one
// step and returns the refreshed group. A group without suggested tasks is
// returned unchanged.
func (s *TaskGroupService) ApplySuggested(ctx context.Context, id string, actor string) (*domain.TaskGroup, error) {
	if _, err := s.groupRepo.GetByID(ctx, id); err != nil {
		return nil, notFoundOr(err, domain.NewTaskGroupNotFoundError(id))
	}

	now := time.Now().UTC()
	applied, err := s.groupRepo.ApplySuggested(ctx, id, now)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	for _, taskID := range applied {
		entry := domain.NewAuditEntry(domain.EntityTask, taskID, domain.ActionApplySuggested, actor).
			WithChange("status", string(domain.StatusSuggested), string(domain.StatusPending))
		entry.ChangedAt = now
		s.auditRepo.Log(ctx, &entry)
	}

	if len(applied) > 0 {
		s.events.TaskGroupUpdated(id)
	}
	return s.Get(ctx, id)
}
