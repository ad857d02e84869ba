package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/internal/domain/repository"
	"github.com/wicara/warungpos-api/pkg/apperror"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// SummaryRecomputer rebuilds the daily rollup for a calendar date
type SummaryRecomputer interface {
	RecomputeDailySummary(ctx context.Context, date time.Time) (*entity.DailySummary, error)
}

// TransactionService freezes carts into immutable sale records
type TransactionService struct {
	txRepo    repository.TransactionRepository
	shiftRepo repository.ShiftRepository
	summaries SummaryRecomputer
	taxRate   float64
	now       func() time.Time
}

// NewTransactionService creates a new transaction service. taxRate is a
// fraction (0.10 for 10%); the current deployment runs with 0 but the field
// is carried on every sale so a future rate change needs no migration.
func NewTransactionService(
	txRepo repository.TransactionRepository,
	shiftRepo repository.ShiftRepository,
	summaries SummaryRecomputer,
	taxRate float64,
) *TransactionService {
	return &TransactionService{
		txRepo:    txRepo,
		shiftRepo: shiftRepo,
		summaries: summaries,
		taxRate:   taxRate,
		now:       time.Now,
	}
}

// CommitInput is the input to Commit. PaymentReceived is in cents and only
// meaningful for Cash.
type CommitInput struct {
	Lines           []entity.CartLine
	PaymentMethod   enum.PaymentMethod
	PaymentReceived *int64
}

// Commit validates the cart, computes totals, associates the sale with the
// active shift when one exists, persists it, and synchronously recomputes
// the daily summary for the sale's date. The returned transaction is
// immutable from here on.
func (s *TransactionService) Commit(ctx context.Context, input *CommitInput) (*entity.Transaction, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	var subTotal int64
	items := make(entity.TransactionItemList, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity < 1 || line.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Cart contains an invalid line")
		}
		subTotal += line.UnitPrice * int64(line.Quantity)
		items = append(items, entity.TransactionItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}

	tax := int64(float64(subTotal) * s.taxRate)
	total := subTotal + tax

	tx := &entity.Transaction{
		Items:           items,
		SubTotal:        subTotal,
		Tax:             tax,
		Total:           total,
		PaymentMethod:   input.PaymentMethod,
		TransactionDate: s.now(),
	}

	if input.PaymentMethod == enum.PaymentMethodCash {
		if input.PaymentReceived == nil || *input.PaymentReceived < total {
			return nil, apperror.ErrInsufficientPayment
		}
		received := *input.PaymentReceived
		change := received - total
		tx.PaymentReceived = &received
		tx.ChangeGiven = &change
	}

	// Sales outside a shift are permitted; the drawer reconciliation just
	// never sees them.
	shift, err := s.shiftRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if shift != nil {
		tx.ShiftID = &shift.ID
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if _, err := s.summaries.RecomputeDailySummary(ctx, tx.TransactionDate); err != nil {
		// The sale is already durable; a stale rollup fixes itself on the
		// next recompute.
		log.Printf("Warning: daily summary recompute failed after commit %s: %v", tx.ID, err)
	}

	return tx, nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return tx, nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	transactions, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pag), nil
}
