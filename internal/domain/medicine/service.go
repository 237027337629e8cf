package medicine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/pkg/pagination"
)

type Service struct {
	meds Repository
}

func NewService(meds Repository) *Service {
	return &Service{meds: meds}
}

// CreateInput is a new catalog entry.
type CreateInput struct {
	Name         string     `json:"name"`
	Manufacturer string     `json:"manufacturer"`
	Description  string     `json:"description"`
	Price        float64    `json:"price"`
	Stock        int        `json:"stock"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Category     string     `json:"category"`
}

func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, in CreateInput) (*Medicine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price < 0 {
		return nil, ErrValidation
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	category := in.Category
	if category == "" {
		category = CategoryOther
	}
	if !validCategories[category] {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}

	m := &Medicine{
		Name:         name,
		Manufacturer: strings.TrimSpace(in.Manufacturer),
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		Stock:        in.Stock,
		ExpiryDate:   in.ExpiryDate,
		Category:     category,
		CreatedBy:    &createdBy,
	}
	if err := s.meds.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.meds.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, pg pagination.Params) ([]*Medicine, int, error) {
	if f.Category != "" && !validCategories[f.Category] {
		return nil, 0, fmt.Errorf("%w: unknown category %q", ErrValidation, f.Category)
	}
	return s.meds.List(ctx, f, pg)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd *Update) (*Medicine, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no valid fields provided", ErrValidation)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if upd.Category != nil && !validCategories[*upd.Category] {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *upd.Category)
	}
	return s.meds.ApplyUpdate(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.meds.Delete(ctx, id)
}

// ReduceStock consumes qty units, typically after dispensing a prescription.
func (s *Service) ReduceStock(ctx context.Context, id uuid.UUID, qty int) (*Medicine, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return s.meds.ReduceStock(ctx, id, qty)
}
