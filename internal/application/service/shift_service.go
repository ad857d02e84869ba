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
	"github.com/wicara/warungpos-api/pkg/email"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// ShiftNotifier delivers a close report somewhere outside the system.
// Delivery is fire-and-forget: the close has already happened by the time
// the notifier runs, and its failure is logged, never surfaced.
type ShiftNotifier interface {
	SendShiftReport(report email.ShiftReport) error
}

// ShiftService runs the shift lifecycle and the drawer reconciliation math
type ShiftService struct {
	shiftRepo   repository.ShiftRepository
	txRepo      repository.TransactionRepository
	expenseRepo repository.ExpenseRepository
	summaries   SummaryRecomputer
	notifier    ShiftNotifier
	now         func() time.Time
}

// NewShiftService creates a new shift service. notifier may be nil when no
// report delivery is configured.
func NewShiftService(
	shiftRepo repository.ShiftRepository,
	txRepo repository.TransactionRepository,
	expenseRepo repository.ExpenseRepository,
	summaries SummaryRecomputer,
	notifier ShiftNotifier,
) *ShiftService {
	return &ShiftService{
		shiftRepo:   shiftRepo,
		txRepo:      txRepo,
		expenseRepo: expenseRepo,
		summaries:   summaries,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Open starts a new shift with the counted opening float. Refused when a
// shift is already active; the storage layer's partial unique index backs
// the same invariant against races.
func (s *ShiftService) Open(ctx context.Context, openingCash int64) (*entity.Shift, error) {
	if openingCash < 0 {
		return nil, apperror.NewBadRequestError("Opening cash cannot be negative")
	}

	active, err := s.shiftRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperror.ErrShiftAlreadyActive
	}

	shift := &entity.Shift{
		OpenedAt:    s.now(),
		OpeningCash: openingCash,
		Status:      enum.ShiftStatusActive,
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// Close ends the active shift. Expected cash is the opening float plus the
// cash-paid revenue of the shift's transactions; the computation is pure
// over the transaction set, so closing is order-independent and
// reproducible. The close itself never waits on, or fails because of, the
// report notification.
func (s *ShiftService) Close(ctx context.Context, closingCash int64, notes *string) (*entity.Shift, error) {
	if closingCash < 0 {
		return nil, apperror.NewBadRequestError("Closing cash cannot be negative")
	}

	shift, err := s.shiftRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.ErrNoActiveShift
	}

	transactions, err := s.txRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	buckets := revenueByMethod(transactions)
	expectedCash := shift.OpeningCash + buckets[enum.PaymentMethodCash]
	cashDifference := closingCash - expectedCash

	closedAt := s.now()
	shift.Status = enum.ShiftStatusClosed
	shift.ClosedAt = &closedAt
	shift.ClosingCash = &closingCash
	shift.ExpectedCash = &expectedCash
	shift.CashDifference = &cashDifference
	shift.Notes = notes

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.recomputeTouchedDates(ctx, transactions, closedAt)
	s.notifyClosed(ctx, shift, transactions)

	return shift, nil
}

// Current returns the active shift, or nil when none is open
func (s *ShiftService) Current(ctx context.Context) (*entity.Shift, error) {
	return s.shiftRepo.GetActive(ctx)
}

// GetShift retrieves a shift by ID
func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return shift, nil
}

// ListShifts lists shifts, newest first
func (s *ShiftService) ListShifts(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Shift], error) {
	shifts, total, err := s.shiftRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(shifts, pag), nil
}

// BalanceSheet is the derived, read-only financial view of one shift.
// Amounts are decimal currency.
type BalanceSheet struct {
	ShiftID          uuid.UUID          `json:"shift_id"`
	Status           enum.ShiftStatus   `json:"status"`
	OpenedAt         time.Time          `json:"opened_at"`
	ClosedAt         *time.Time         `json:"closed_at,omitempty"`
	OpeningCash      float64            `json:"opening_cash"`
	ExpectedCash     float64            `json:"expected_cash"`
	ClosingCash      *float64           `json:"closing_cash,omitempty"`
	CashDifference   *float64           `json:"cash_difference,omitempty"`
	RevenueByMethod  map[string]float64 `json:"revenue_by_method"`
	TotalRevenue     float64            `json:"total_revenue"`
	ExpensesByCat    map[string]float64 `json:"expenses_by_category"`
	TotalExpenses    float64            `json:"total_expenses"`
	NetProfit        float64            `json:"net_profit"`
	TransactionCount int                `json:"transaction_count"`
}

// GetBalanceSheet derives the balance sheet for any shift, open or closed,
// with zero writes. For a closed shift the derived cash figures equal the
// ones frozen at close time because both come from the same pure
// computation over the same records.
func (s *ShiftService) GetBalanceSheet(ctx context.Context, shiftID uuid.UUID) (*BalanceSheet, error) {
	shift, err := s.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	buckets := revenueByMethod(transactions)
	var totalRevenue int64
	revenue := make(map[string]float64, 4)
	for _, method := range []enum.PaymentMethod{
		enum.PaymentMethodCash, enum.PaymentMethodCard, enum.PaymentMethodEWallet, enum.PaymentMethodQRPay,
	} {
		revenue[method.String()] = float64(buckets[method]) / 100
		totalRevenue += buckets[method]
	}

	var totalExpenses int64
	byCategory := make(map[string]float64)
	for _, e := range expenses {
		totalExpenses += e.Amount
		byCategory[e.Category] += float64(e.Amount) / 100
	}

	sheet := &BalanceSheet{
		ShiftID:          shift.ID,
		Status:           shift.Status,
		OpenedAt:         shift.OpenedAt,
		ClosedAt:         shift.ClosedAt,
		OpeningCash:      float64(shift.OpeningCash) / 100,
		ExpectedCash:     float64(shift.OpeningCash+buckets[enum.PaymentMethodCash]) / 100,
		RevenueByMethod:  revenue,
		TotalRevenue:     float64(totalRevenue) / 100,
		ExpensesByCat:    byCategory,
		TotalExpenses:    float64(totalExpenses) / 100,
		NetProfit:        float64(totalRevenue-totalExpenses) / 100,
		TransactionCount: len(transactions),
	}
	if shift.ClosingCash != nil {
		v := float64(*shift.ClosingCash) / 100
		sheet.ClosingCash = &v
	}
	if shift.CashDifference != nil {
		v := float64(*shift.CashDifference) / 100
		sheet.CashDifference = &v
	}

	return sheet, nil
}

// revenueByMethod partitions a transaction set into per-method totals.
// Pure and order-independent.
func revenueByMethod(transactions []entity.Transaction) map[enum.PaymentMethod]int64 {
	buckets := make(map[enum.PaymentMethod]int64, 4)
	for _, tx := range transactions {
		buckets[tx.PaymentMethod] += tx.Total
	}
	return buckets
}

// recomputeTouchedDates refreshes the rollup for every calendar date the
// shift's transactions fall on, plus the close date.
func (s *ShiftService) recomputeTouchedDates(ctx context.Context, transactions []entity.Transaction, closedAt time.Time) {
	dates := map[string]time.Time{closedAt.Format("2006-01-02"): closedAt}
	for _, tx := range transactions {
		dates[tx.TransactionDate.Format("2006-01-02")] = tx.TransactionDate
	}
	for _, date := range dates {
		if _, err := s.summaries.RecomputeDailySummary(ctx, date); err != nil {
			log.Printf("Warning: daily summary recompute failed after shift close: %v", err)
		}
	}
}

// notifyClosed dispatches the close report on a goroutine. Failures are
// logged and swallowed; drawer correctness never depends on delivery.
func (s *ShiftService) notifyClosed(ctx context.Context, shift *entity.Shift, transactions []entity.Transaction) {
	if s.notifier == nil {
		return
	}

	expenses, err := s.expenseRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		log.Printf("Warning: could not load expenses for shift report: %v", err)
	}

	report := buildShiftReport(shift, transactions, expenses)
	go func() {
		if err := s.notifier.SendShiftReport(report); err != nil {
			log.Printf("Warning: shift report delivery failed: %v", err)
		}
	}()
}

func buildShiftReport(shift *entity.Shift, transactions []entity.Transaction, expenses []entity.Expense) email.ShiftReport {
	buckets := revenueByMethod(transactions)
	var totalRevenue, totalExpenses int64
	for _, v := range buckets {
		totalRevenue += v
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
	}

	report := email.ShiftReport{
		OpenedAt:       shift.OpenedAt,
		OpeningCash:    float64(shift.OpeningCash) / 100,
		CashRevenue:    float64(buckets[enum.PaymentMethodCash]) / 100,
		CardRevenue:    float64(buckets[enum.PaymentMethodCard]) / 100,
		EwalletRevenue: float64(buckets[enum.PaymentMethodEWallet]) / 100,
		QrPayRevenue:   float64(buckets[enum.PaymentMethodQRPay]) / 100,
		TotalRevenue:   float64(totalRevenue) / 100,
		TotalExpenses:  float64(totalExpenses) / 100,
		NetProfit:      float64(totalRevenue-totalExpenses) / 100,
	}
	if shift.ClosedAt != nil {
		report.ClosedAt = *shift.ClosedAt
	}
	if shift.ClosingCash != nil {
		report.ClosingCash = float64(*shift.ClosingCash) / 100
	}
	if shift.ExpectedCash != nil {
		report.ExpectedCash = float64(*shift.ExpectedCash) / 100
	}
	if shift.CashDifference != nil {
		report.CashDifference = float64(*shift.CashDifference) / 100
	}
	if shift.Notes != nil {
		report.Notes = *shift.Notes
	}

	for _, tx := range transactions {
		report.TransactionRows = append(report.TransactionRows, email.ShiftReportLine{
			Time:          tx.TransactionDate.Format("15:04"),
			ItemCount:     len(tx.Items),
			PaymentMethod: tx.PaymentMethod.String(),
			Total:         float64(tx.Total) / 100,
		})
	}

	return report
}
