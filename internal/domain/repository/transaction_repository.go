package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// TransactionRepository defines the interface for committed sale storage.
// Transactions are append-only: there is deliberately no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]entity.Transaction, error)
	// ListByDateRange returns all transactions with TransactionDate in
	// [start, end]. Callers normalize the bounds to day edges.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.Transaction, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for listing sales
type TransactionFilterParams struct {
	Pagination    *pagination.PaginationParams
	ShiftID       *uuid.UUID
	PaymentMethod *enum.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
}
