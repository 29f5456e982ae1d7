package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
	"github.com/fixdesk/fixdesk/pkg/idgen"
)

// SparePartService handles spare-part inventory business logic.
type SparePartService struct {
	partRepo  *sqlite.SparePartRepository
	auditRepo *sqlite.AuditRepository
	events    Events
}

// NewSparePartService creates a new SparePartService.
func NewSparePartService(partRepo *sqlite.SparePartRepository, auditRepo *sqlite.AuditRepository, events Events) *SparePartService {
	return &SparePartService{
		partRepo:  partRepo,
		auditRepo: auditRepo,
		events:    eventsOrNop(events),
	}
}

// SparePartInput carries the editable fields of a spare part. Nil fields are
// left unchanged on update.
type SparePartInput struct {
	Name         *string
	Category     *string
	MachineType  *string
	Quantity     *int
	MinThreshold *int
	Unit         *string
	Supplier     *string
	Price        *float64
	ImageURL     *string
}

func (in SparePartInput) apply(p *domain.SparePart) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.MachineType != nil {
		p.MachineType = *in.MachineType
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.MinThreshold != nil {
		p.MinThreshold = *in.MinThreshold
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Supplier != nil {
		p.Supplier = *in.Supplier
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
}

// Create creates a new spare part.
func (s *SparePartService) Create(ctx context.Context, input SparePartInput, actor string) (*domain.SparePart, error) {
	id, err := idgen.Generate(idgen.PrefixSparePart)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	part := &domain.SparePart{ID: id, UpdatedAt: time.Now().UTC()}
	input.apply(part)

	if err := s.partRepo.Create(ctx, part); err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateNameError(part.Name)
		}
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(domain.EntitySparePart, id, domain.ActionCreate, actor)
	s.auditRepo.Log(ctx, &entry)

	s.events.InventoryUpdated()
	return part, nil
}

// Get retrieves a spare part by ID.
func (s *SparePartService) Get(ctx context.Context, id string) (*domain.SparePart, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewSparePartNotFoundError(id))
	}
	return part, nil
}

// ListSparePartsInput contains the input for listing spare parts.
type ListSparePartsInput struct {
	Filter  sqlite.SparePartFilter
	Page    int
	PerPage int
}

// List retrieves one page of the filtered inventory together with the
// filtered total.
func (s *SparePartService) List(ctx context.Context, input ListSparePartsInput) ([]*domain.SparePart, int, error) {
	parts, total, err := s.partRepo.List(ctx, input.Filter, input.Page, input.PerPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return parts, total, nil
}

// All returns the whole inventory.
func (s *SparePartService) All(ctx context.Context) ([]*domain.SparePart, error) {
	parts, err := s.partRepo.All(ctx)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return parts, nil
}

// Summary aggregates the whole inventory, independent of any filter.
func (s *SparePartService) Summary(ctx context.Context) (*domain.InventorySummary, error) {
	summary, err := s.partRepo.Summary(ctx)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return summary, nil
}

// Update updates a spare part. Writing back unchanged values is a no-op as
// far as the stored data is concerned.
func (s *SparePartService) Update(ctx context.Context, id string, input SparePartInput, actor string) (*domain.SparePart, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewSparePartNotFoundError(id))
	}

	oldQuantity := part.Quantity
	input.apply(part)
	part.UpdatedAt = time.Now().UTC()

	if err := s.partRepo.Update(ctx, part); err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateNameError(part.Name)
		}
		return nil, notFoundOr(err, domain.NewSparePartNotFoundError(id))
	}

	entry := domain.NewAuditEntry(domain.EntitySparePart, id, domain.ActionUpdate, actor)
	if oldQuantity != part.Quantity {
		entry = entry.WithChange("quantity", intToStr(oldQuantity), intToStr(part.Quantity))
	}
	s.auditRepo.Log(ctx, &entry)

	s.events.InventoryUpdated()
	return part, nil
}

// ImportResult reports what an import did.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Import upserts parts by name in one transaction. The first failing row
// aborts the import, nothing is written, and the row is reported with its
// position.
func (s *SparePartService) Import(ctx context.Context, parts []*domain.SparePart, actor string) (*ImportResult, error) {
	if len(parts) == 0 {
		return &ImportResult{}, nil
	}

	now := time.Now().UTC()
	for _, part := range parts {
		if part.ID == "" {
			id, err := idgen.Generate(idgen.PrefixSparePart)
			if err != nil {
				return nil, domain.NewInternalError(err)
			}
			part.ID = id
		}
		part.UpdatedAt = now
	}

	created, err := s.partRepo.UpsertAll(ctx, parts)
	if err != nil {
		var rowErr *sqlite.RowError
		if errors.As(err, &rowErr) {
			return nil, domain.NewValidationError([]string{rowErr.Error()})
		}
		return nil, domain.NewInternalError(err)
	}
	result := &ImportResult{Created: created, Updated: len(parts) - created}

	entry := domain.NewAuditEntry(domain.EntitySparePart, "*", domain.ActionImport, actor).
		WithNewValue(fmt.Sprintf("created=%d updated=%d", result.Created, result.Updated))
	s.auditRepo.Log(ctx, &entry)
	s.events.InventoryUpdated()
	return result, nil
}

func duplicateNameError(name string) error {
	return domain.NewFieldValidationError(map[string]string{
		"name": fmt.Sprintf("a spare part named %s already exists", name),
	})
}
