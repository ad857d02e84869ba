package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	domainRepo "github.com/wicara/warungpos-api/internal/domain/repository"
	"github.com/wicara/warungpos-api/pkg/email"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// In-memory repositories for service tests. They hold slices, not maps, so
// iteration order matches insertion order the way the SQL queries order by
// date.

type fakeTransactionRepo struct {
	transactions []entity.Transaction
	createErr    error
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	r.transactions = append(r.transactions, *tx)
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			tx := r.transactions[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) ListByShift(_ context.Context, shiftID uuid.UUID) ([]entity.Transaction, error) {
	var out []entity.Transaction
	for _, tx := range r.transactions {
		if tx.ShiftID != nil && *tx.ShiftID == shiftID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]entity.Transaction, error) {
	var out []entity.Transaction
	for _, tx := range r.transactions {
		if !tx.TransactionDate.Before(start) && !tx.TransactionDate.After(end) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.Before(out[j].TransactionDate)
	})
	return out, nil
}

func (r *fakeTransactionRepo) List(_ context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	out := append([]entity.Transaction(nil), r.transactions...)
	return out, int64(len(out)), nil
}

type fakeShiftRepo struct {
	shifts []entity.Shift
}

func (r *fakeShiftRepo) Create(_ context.Context, shift *entity.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	r.shifts = append(r.shifts, *shift)
	return nil
}

func (r *fakeShiftRepo) Update(_ context.Context, shift *entity.Shift) error {
	for i := range r.shifts {
		if r.shifts[i].ID == shift.ID {
			r.shifts[i] = *shift
			return nil
		}
	}
	return nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Shift, error) {
	for i := range r.shifts {
		if r.shifts[i].ID == id {
			s := r.shifts[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeShiftRepo) GetActive(_ context.Context) (*entity.Shift, error) {
	for i := range r.shifts {
		if r.shifts[i].Status == enum.ShiftStatusActive {
			s := r.shifts[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeShiftRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Shift, int64, error) {
	out := append([]entity.Shift(nil), r.shifts...)
	return out, int64(len(out)), nil
}

type fakeExpenseRepo struct {
	expenses []entity.Expense
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *entity.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	r.expenses = append(r.expenses, *expense)
	return nil
}

func (r *fakeExpenseRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Expense, error) {
	for i := range r.expenses {
		if r.expenses[i].ID == id {
			e := r.expenses[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) ListByShift(_ context.Context, shiftID uuid.UUID) ([]entity.Expense, error) {
	var out []entity.Expense
	for _, e := range r.expenses {
		if e.ShiftID != nil && *e.ShiftID == shiftID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]entity.Expense, error) {
	var out []entity.Expense
	for _, e := range r.expenses {
		if !e.ExpenseDate.Before(start) && !e.ExpenseDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) List(_ context.Context, _ *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	out := append([]entity.Expense(nil), r.expenses...)
	return out, int64(len(out)), nil
}

type fakeSummaryRepo struct {
	summaries map[string]entity.DailySummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[string]entity.DailySummary)}
}

func (r *fakeSummaryRepo) Upsert(_ context.Context, summary *entity.DailySummary) error {
	r.summaries[summary.SummaryDate.Format("2006-01-02")] = *summary
	return nil
}

func (r *fakeSummaryRepo) GetByDate(_ context.Context, date time.Time) (*entity.DailySummary, error) {
	if s, ok := r.summaries[date.Format("2006-01-02")]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSummaryRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]entity.DailySummary, error) {
	var out []entity.DailySummary
	for _, s := range r.summaries {
		if !s.SummaryDate.Before(start) && !s.SummaryDate.After(end) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SummaryDate.Before(out[j].SummaryDate)
	})
	return out, nil
}

// noopRecomputer satisfies SummaryRecomputer for tests that do not care
// about the rollup side effect.
type noopRecomputer struct{}

func (noopRecomputer) RecomputeDailySummary(_ context.Context, _ time.Time) (*entity.DailySummary, error) {
	return &entity.DailySummary{}, nil
}

// fakeNotifier records shift reports and signals delivery, the send happens
// on a goroutine.
type fakeNotifier struct {
	err  error
	sent chan email.ShiftReport
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, sent: make(chan email.ShiftReport, 1)}
}

func (n *fakeNotifier) SendShiftReport(report email.ShiftReport) error {
	n.sent <- report
	return n.err
}

// fixedPrices is a canned PriceSuggester
type fixedPrices struct {
	prices map[string]int64
}

func (p *fixedPrices) Suggest(_ context.Context, name string) (*int64, enum.PriceConfidence) {
	if cents, ok := p.prices[entity.NameKey(name)]; ok {
		c := cents
		return &c, enum.PriceConfidenceMedium
	}
	return nil, enum.PriceConfidenceNone
}
