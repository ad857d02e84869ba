package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// ExpenseRepository defines the interface for expense storage
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]entity.Expense, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.Expense, error)
	List(ctx context.Context, params *ExpenseFilterParams) ([]entity.Expense, int64, error)
}

// ExpenseFilterParams contains filtering parameters for listing expenses
type ExpenseFilterParams struct {
	Pagination *pagination.PaginationParams
	ShiftID    *uuid.UUID
	Category   string
	StartDate  *time.Time
	EndDate    *time.Time
}
