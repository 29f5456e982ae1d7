package service

import (
	"context"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// AuditService handles audit log queries.
type AuditService struct {
	auditRepo *sqlite.AuditRepository
	taskRepo  *sqlite.TaskRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo *sqlite.AuditRepository, taskRepo *sqlite.TaskRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		taskRepo:  taskRepo,
	}
}

// GetTaskHistory returns the audit history for a task. History outlives the
// task itself, so not-found is only reported when there is nothing logged.
func (s *AuditService) GetTaskHistory(ctx context.Context, taskID string) ([]*domain.AuditEntry, error) {
	entries, err := s.auditRepo.ListByEntity(ctx, domain.EntityTask, taskID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	if len(entries) == 0 {
		if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
			return nil, notFoundOr(err, domain.NewTaskNotFoundError(taskID))
		}
	}

	return entries, nil
}

// QueryInput contains the input for querying the audit log.
type QueryInput struct {
	EntityType *string
	Action     *string
	ChangedBy  *string
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PerPage    int
}

// Query queries the audit log with filters.
func (s *AuditService) Query(ctx context.Context, input QueryInput) ([]*domain.AuditEntry, int, error) {
	entries, total, err := s.auditRepo.Query(ctx, sqlite.AuditQueryParams{
		EntityType: input.EntityType,
		Action:     input.Action,
		ChangedBy:  input.ChangedBy,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Page:       input.Page,
		PerPage:    input.PerPage,
	})
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return entries, total, nil
}
