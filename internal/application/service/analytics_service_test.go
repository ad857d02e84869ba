package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
)

type analyticsFixture struct {
	svc         *AnalyticsService
	txRepo      *fakeTransactionRepo
	expenseRepo *fakeExpenseRepo
	summaryRepo *fakeSummaryRepo
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		txRepo:      &fakeTransactionRepo{},
		expenseRepo: &fakeExpenseRepo{},
		summaryRepo: newFakeSummaryRepo(),
	}
	f.svc = NewAnalyticsService(f.txRepo, f.expenseRepo, f.summaryRepo)
	return f
}

func (f *analyticsFixture) addSale(at time.Time, method enum.PaymentMethod, items ...entity.TransactionItem) {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	_ = f.txRepo.Create(context.Background(), &entity.Transaction{
		Items:           items,
		SubTotal:        total,
		Total:           total,
		PaymentMethod:   method,
		TransactionDate: at,
	})
}

func (f *analyticsFixture) addExpense(at time.Time, category string, amount int64) {
	_ = f.expenseRepo.Create(context.Background(), &entity.Expense{
		Amount: amount, Category: category, ExpenseDate: at,
	})
}

func day(d int, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestRecomputeDailySummary(t *testing.T) {
	f := newAnalyticsFixture()

	f.addSale(day(14, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "Burger", Quantity: 2, Price: 899})
	f.addSale(day(14, 12), enum.PaymentMethodQRPay,
		entity.TransactionItem{Name: "Fries", Quantity: 3, Price: 350},
		entity.TransactionItem{Name: "Burger", Quantity: 1, Price: 899})
	f.addSale(day(15, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "Burger", Quantity: 5, Price: 899}) // other day
	f.addExpense(day(14, 10), "supplies", 500)

	summary, err := f.svc.RecomputeDailySummary(context.Background(), day(14, 0))
	require.NoError(t, err)

	assert.Equal(t, int64(3747), summary.TotalSales)
	assert.Equal(t, int64(500), summary.TotalExpenses)
	assert.Equal(t, int64(3247), summary.NetProfit)
	assert.Equal(t, 2, summary.TransactionCount)
	assert.Equal(t, int64(1798), summary.CashPayments)
	assert.Equal(t, int64(1949), summary.QrPayPayments)

	require.Len(t, summary.TopSellingItems, 2)
	assert.Equal(t, "Burger", summary.TopSellingItems[0].Name)
	assert.Equal(t, 3, summary.TopSellingItems[0].Quantity)
	assert.Equal(t, "Fries", summary.TopSellingItems[1].Name)

	stored, err := f.summaryRepo.GetByDate(context.Background(), day(14, 0))
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestRecomputeDailySummaryIsIdempotent(t *testing.T) {
	f := newAnalyticsFixture()
	f.addSale(day(14, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "Burger", Quantity: 2, Price: 899})

	first, err := f.svc.RecomputeDailySummary(context.Background(), day(14, 0))
	require.NoError(t, err)
	second, err := f.svc.RecomputeDailySummary(context.Background(), day(14, 0))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecomputeTopItemTiesKeepFirstEncountered(t *testing.T) {
	f := newAnalyticsFixture()
	f.addSale(day(14, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "Fries", Quantity: 2, Price: 350},
		entity.TransactionItem{Name: "Burger", Quantity: 2, Price: 899})

	summary, err := f.svc.RecomputeDailySummary(context.Background(), day(14, 0))
	require.NoError(t, err)

	require.Len(t, summary.TopSellingItems, 2)
	assert.Equal(t, "Fries", summary.TopSellingItems[0].Name)
	assert.Equal(t, "Burger", summary.TopSellingItems[1].Name)
}

func TestRangeSummary(t *testing.T) {
	f := newAnalyticsFixture()

	// Three sales totaling 50.00 and 10.00 of expenses across a week.
	f.addSale(day(10, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "A", Quantity: 1, Price: 2000})
	f.addSale(day(12, 9), enum.PaymentMethodCard,
		entity.TransactionItem{Name: "B", Quantity: 1, Price: 2000})
	f.addSale(day(16, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "C", Quantity: 1, Price: 1000})
	f.addExpense(day(11, 9), "supplies", 1000)

	summary, err := f.svc.GetRangeSummary(context.Background(), day(10, 0), day(16, 0))
	require.NoError(t, err)

	assert.Equal(t, 50.00, summary.TotalSales)
	assert.Equal(t, 10.00, summary.TotalExpenses)
	assert.Equal(t, 40.00, summary.NetProfit)
	assert.Equal(t, 3, summary.TransactionCount)
	assert.InDelta(t, 50.0/3, summary.AvgOrderValue, 1e-9)
}

func TestRangeSummaryEmptyRange(t *testing.T) {
	f := newAnalyticsFixture()

	summary, err := f.svc.GetRangeSummary(context.Background(), day(1, 0), day(2, 0))
	require.NoError(t, err)

	assert.Equal(t, 0.00, summary.TotalSales)
	assert.Equal(t, 0, summary.TransactionCount)
	assert.Equal(t, 0.00, summary.AvgOrderValue)
}

func TestMenuItemSales(t *testing.T) {
	f := newAnalyticsFixture()

	f.addSale(day(14, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "Burger", Quantity: 2, Price: 899},
		entity.TransactionItem{Name: "Fries", Quantity: 1, Price: 350})
	f.addSale(day(14, 12), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "burger", Quantity: 1, Price: 899})

	items, err := f.svc.GetMenuItemSales(context.Background(), day(14, 0), day(14, 0))
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 26.97, items[0].Revenue)
	assert.Equal(t, 8.99, items[0].AveragePrice)
	assert.Equal(t, 2, items[0].OrderCount)
	assert.Equal(t, "Fries", items[1].Name)
	assert.Equal(t, 1, items[1].OrderCount)
}

func TestBusyHoursNightBlockWraps(t *testing.T) {
	f := newAnalyticsFixture()

	f.addSale(day(14, 23), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "A", Quantity: 1, Price: 1000})
	f.addSale(day(14, 2), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "B", Quantity: 1, Price: 500})
	f.addSale(day(14, 7), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "C", Quantity: 1, Price: 250})

	report, err := f.svc.GetBusyHours(context.Background(), day(14, 0), day(14, 0))
	require.NoError(t, err)

	require.Len(t, report.Hours, 24)
	assert.Equal(t, 1, report.Hours[23].Count)
	assert.Equal(t, 1, report.Hours[2].Count)

	blocks := make(map[string]TimeBlockSales, 4)
	for _, b := range report.Blocks {
		blocks[b.Block] = b
	}
	assert.Equal(t, 2, blocks["Night"].Count, "23:00 and 02:00 both land in Night")
	assert.Equal(t, 15.00, blocks["Night"].Sales)
	assert.Equal(t, 1, blocks["Morning"].Count)
	assert.Equal(t, 0, blocks["Afternoon"].Count)
	assert.Equal(t, 0, blocks["Evening"].Count)
}

func TestSalesTrendsWeeklySundayJoinsPrecedingMonday(t *testing.T) {
	f := newAnalyticsFixture()

	// 2025-03-10 is a Monday, 2025-03-16 the Sunday of the same week.
	f.addSale(day(10, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "A", Quantity: 1, Price: 1000})
	f.addSale(day(16, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "B", Quantity: 1, Price: 1000})
	f.addSale(day(17, 9), enum.PaymentMethodCash, // next Monday
		entity.TransactionItem{Name: "C", Quantity: 1, Price: 1000})

	points, err := f.svc.GetSalesTrends(context.Background(), day(10, 0), day(17, 0), TrendWeekly)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-10", points[0].Period)
	assert.Equal(t, 20.00, points[0].Sales)
	assert.Equal(t, 2, points[0].TransactionCount)
	assert.Equal(t, "2025-03-17", points[1].Period)
}

func TestSalesTrendsDailyPrefersStoredSummary(t *testing.T) {
	f := newAnalyticsFixture()

	f.addSale(day(14, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "A", Quantity: 1, Price: 1000})
	f.addSale(day(15, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "B", Quantity: 1, Price: 2000})

	// Only the 14th has a rollup row; the 15th must fall back to the raw
	// transactions.
	_, err := f.svc.RecomputeDailySummary(context.Background(), day(14, 0))
	require.NoError(t, err)

	points, err := f.svc.GetSalesTrends(context.Background(), day(14, 0), day(15, 0), TrendDaily)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-14", points[0].Period)
	assert.Equal(t, 10.00, points[0].Sales)
	assert.Equal(t, "2025-03-15", points[1].Period)
	assert.Equal(t, 20.00, points[1].Sales)
	assert.Equal(t, 20.00, points[1].AvgOrderValue)
}

func TestSalesTrendsMonthly(t *testing.T) {
	f := newAnalyticsFixture()

	f.addSale(day(14, 9), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "A", Quantity: 1, Price: 1000})
	f.addSale(time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC), enum.PaymentMethodCash,
		entity.TransactionItem{Name: "B", Quantity: 1, Price: 1000})

	points, err := f.svc.GetSalesTrends(context.Background(),
		day(1, 0), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), TrendMonthly)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, "2025-03", points[0].Period)
	assert.Equal(t, "2025-04", points[1].Period)
}

func TestExpenseBreakdown(t *testing.T) {
	f := newAnalyticsFixture()

	f.addExpense(day(14, 9), "supplies", 1500)
	f.addExpense(day(14, 10), "supplies", 500)
	f.addExpense(day(14, 11), "utilities", 3000)

	breakdown, err := f.svc.GetExpenseBreakdown(context.Background(), day(14, 0), day(14, 0))
	require.NoError(t, err)

	assert.Equal(t, 50.00, breakdown.Total)
	assert.Equal(t, 3, breakdown.Count)
	require.Len(t, breakdown.Categories, 2)
	assert.Equal(t, "utilities", breakdown.Categories[0].Category)
	assert.Equal(t, 30.00, breakdown.Categories[0].Amount)
	assert.Equal(t, "supplies", breakdown.Categories[1].Category)
	assert.Equal(t, 2, breakdown.Categories[1].Count)
}
