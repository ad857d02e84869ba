package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/repository"
	"github.com/wicara/warungpos-api/pkg/apperror"
)

// ExpenseService records cash outflows and keeps the daily rollup current
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	shiftRepo   repository.ShiftRepository
	summaries   SummaryRecomputer
	now         func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	shiftRepo repository.ShiftRepository,
	summaries SummaryRecomputer,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		shiftRepo:   shiftRepo,
		summaries:   summaries,
		now:         time.Now,
	}
}

// RecordExpenseInput carries a new expense. Amount is cents.
type RecordExpenseInput struct {
	Amount      int64
	Category    string
	Description string
}

// RecordExpense stores an expense, attributed to the active shift when one
// exists. Expenses outside any shift are still recorded.
func (s *ExpenseService) RecordExpense(ctx context.Context, input *RecordExpenseInput) (*entity.Expense, error) {
	if input.Amount < 0 {
		return nil, apperror.NewBadRequestError("Expense amount cannot be negative")
	}
	if input.Category == "" {
		return nil, apperror.NewBadRequestError("Expense category is required")
	}

	expense := &entity.Expense{
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		ExpenseDate: s.now(),
	}

	activeShift, err := s.shiftRepo.GetActive(ctx)
	if err == nil && activeShift != nil {
		expense.ShiftID = &activeShift.ID
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	if _, err := s.summaries.RecomputeDailySummary(ctx, expense.ExpenseDate); err != nil {
		log.Printf("failed to recompute daily summary after expense %s: %v", expense.ID, err)
	}

	return expense, nil
}

// GetExpense retrieves a single expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewNotFoundError("Expense")
	}
	return expense, nil
}

// ListExpenses returns expenses matching the filter with a total count
func (s *ExpenseService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	return s.expenseRepo.List(ctx, params)
}
