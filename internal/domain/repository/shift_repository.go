package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// ShiftRepository defines the interface for shift storage. The storage layer
// must enforce that at most one shift row has active status at a time;
// Create returns a conflict error when a second active shift is inserted.
type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.Shift) error
	Update(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error)
	// GetActive returns the currently open shift, or nil when none is open.
	GetActive(ctx context.Context) (*entity.Shift, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Shift, int64, error)
}
