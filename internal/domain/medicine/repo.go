package medicine

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/pkg/pagination"
)

// Repository is the medicine catalog store.
type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	List(ctx context.Context, f Filter, pg pagination.Params) ([]*Medicine, int, error)
	ApplyUpdate(ctx context.Context, id uuid.UUID, upd *Update) (*Medicine, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ReduceStock decrements stock by qty only when at least qty units
	// remain, in a single statement. Returns ErrInsufficientStock when the
	// guard fails on an existing row.
	ReduceStock(ctx context.Context, id uuid.UUID, qty int) (*Medicine, error)
}
