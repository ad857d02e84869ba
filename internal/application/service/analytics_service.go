package service

import (
	"context"
	"sort"
	"time"

	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/internal/domain/repository"
)

// AnalyticsService maintains the daily rollup and answers range analytics.
// Every query here is a pure group-and-sum over a time-bounded snapshot of
// transactions and expenses: a query racing a concurrent commit may or may
// not observe it, which is accepted, not masked.
type AnalyticsService struct {
	txRepo      repository.TransactionRepository
	expenseRepo repository.ExpenseRepository
	summaryRepo repository.DailySummaryRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	txRepo repository.TransactionRepository,
	expenseRepo repository.ExpenseRepository,
	summaryRepo repository.DailySummaryRepository,
) *AnalyticsService {
	return &AnalyticsService{
		txRepo:      txRepo,
		expenseRepo: expenseRepo,
		summaryRepo: summaryRepo,
	}
}

// RecomputeDailySummary rebuilds the rollup row for date's calendar day from
// that day's transactions and expenses and upserts it. Recomputing with no
// intervening data change produces an identical row.
func (s *AnalyticsService) RecomputeDailySummary(ctx context.Context, date time.Time) (*entity.DailySummary, error) {
	start, end := dayBounds(date)

	transactions, err := s.txRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary := &entity.DailySummary{
		SummaryDate:      start,
		TransactionCount: len(transactions),
		TopSellingItems:  topSellingItems(transactions, 5),
	}

	for _, tx := range transactions {
		summary.TotalSales += tx.Total
		switch tx.PaymentMethod {
		case enum.PaymentMethodCash:
			summary.CashPayments += tx.Total
		case enum.PaymentMethodCard:
			summary.CardPayments += tx.Total
		case enum.PaymentMethodEWallet:
			summary.EwalletPayments += tx.Total
		case enum.PaymentMethodQRPay:
			summary.QrPayPayments += tx.Total
		}
	}
	for _, e := range expenses {
		summary.TotalExpenses += e.Amount
	}
	summary.NetProfit = summary.TotalSales - summary.TotalExpenses

	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

// GetDailySummary returns the stored rollup for a date, or nil
func (s *AnalyticsService) GetDailySummary(ctx context.Context, date time.Time) (*entity.DailySummary, error) {
	start, _ := dayBounds(date)
	return s.summaryRepo.GetByDate(ctx, start)
}

// topSellingItems ranks identity-matched items by quantity sold, ties broken
// by first-encountered order across the transaction list.
func topSellingItems(transactions []entity.Transaction, limit int) entity.TopItemList {
	type bucket struct {
		name      string
		quantity  int
		revenue   int64
		firstSeen int
	}

	buckets := make(map[string]*bucket)
	order := 0
	for _, tx := range transactions {
		for _, item := range tx.Items {
			key := entity.NameKey(item.Name)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{name: item.Name, firstSeen: order}
				buckets[key] = b
				order++
			}
			b.quantity += item.Quantity
			b.revenue += item.Price * int64(item.Quantity)
		}
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ranked = append(ranked, b)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].quantity != ranked[j].quantity {
			return ranked[i].quantity > ranked[j].quantity
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make(entity.TopItemList, len(ranked))
	for i, b := range ranked {
		top[i] = entity.TopItem{Name: b.name, Quantity: b.quantity, Revenue: b.revenue}
	}
	return top
}

// RangeSummary is the whole-range aggregate. Amounts are decimal currency.
type RangeSummary struct {
	TotalSales       float64 `json:"total_sales"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetProfit        float64 `json:"net_profit"`
	TransactionCount int     `json:"transaction_count"`
	AvgOrderValue    float64 `json:"avg_order_value"`
}

// GetRangeSummary aggregates sales and expenses over [start, end]. An empty
// range yields zeros, never an error.
func (s *AnalyticsService) GetRangeSummary(ctx context.Context, start, end time.Time) (*RangeSummary, error) {
	start, end = normalizeRange(start, end)

	transactions, err := s.txRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var sales, totalExpenses int64
	for _, tx := range transactions {
		sales += tx.Total
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
	}

	summary := &RangeSummary{
		TotalSales:       float64(sales) / 100,
		TotalExpenses:    float64(totalExpenses) / 100,
		NetProfit:        float64(sales-totalExpenses) / 100,
		TransactionCount: len(transactions),
	}
	if len(transactions) > 0 {
		summary.AvgOrderValue = summary.TotalSales / float64(len(transactions))
	}

	return summary, nil
}

// MenuItemSales is the per-item performance over a range
type MenuItemSales struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	AveragePrice float64 `json:"average_price"`
	OrderCount   int     `json:"order_count"`
}

// GetMenuItemSales groups line items by identity-matched name over the
// range, sorted by revenue descending. OrderCount is the number of distinct
// transactions containing the item.
func (s *AnalyticsService) GetMenuItemSales(ctx context.Context, start, end time.Time) ([]MenuItemSales, error) {
	start, end = normalizeRange(start, end)

	transactions, err := s.txRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		name     string
		quantity int
		revenue  int64
		orders   int
	}

	buckets := make(map[string]*bucket)
	for _, tx := range transactions {
		seen := make(map[string]bool)
		for _, item := range tx.Items {
			key := entity.NameKey(item.Name)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{name: item.Name}
				buckets[key] = b
			}
			b.quantity += item.Quantity
			b.revenue += item.Price * int64(item.Quantity)
			if !seen[key] {
				b.orders++
				seen[key] = true
			}
		}
	}

	results := make([]MenuItemSales, 0, len(buckets))
	for _, b := range buckets {
		row := MenuItemSales{
			Name:       b.name,
			Quantity:   b.quantity,
			Revenue:    float64(b.revenue) / 100,
			OrderCount: b.orders,
		}
		if b.quantity > 0 {
			row.AveragePrice = row.Revenue / float64(b.quantity)
		}
		results = append(results, row)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Revenue > results[j].Revenue
	})

	return results, nil
}

// HourlySales is one hour-of-day bucket
type HourlySales struct {
	Hour  int     `json:"hour"`
	Count int     `json:"count"`
	Sales float64 `json:"sales"`
}

// TimeBlockSales is one fixed time-block bucket
type TimeBlockSales struct {
	Block string  `json:"block"`
	Count int     `json:"count"`
	Sales float64 `json:"sales"`
}

// BusyHoursReport buckets a range's transactions by hour of day and by the
// four fixed time blocks.
type BusyHoursReport struct {
	Hours  []HourlySales    `json:"hours"`
	Blocks []TimeBlockSales `json:"blocks"`
}

// GetBusyHours buckets transactions by local hour of day (0-23) and into
// Morning [06,12), Afternoon [12,18), Evening [18,22) and the wrap-around
// Night [22,06) block.
func (s *AnalyticsService) GetBusyHours(ctx context.Context, start, end time.Time) (*BusyHoursReport, error) {
	start, end = normalizeRange(start, end)

	transactions, err := s.txRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	hourCounts := make([]int, 24)
	hourSales := make([]int64, 24)
	for _, tx := range transactions {
		h := tx.TransactionDate.Hour()
		hourCounts[h]++
		hourSales[h] += tx.Total
	}

	report := &BusyHoursReport{
		Hours:  make([]HourlySales, 24),
		Blocks: make([]TimeBlockSales, 4),
	}
	for h := 0; h < 24; h++ {
		report.Hours[h] = HourlySales{Hour: h, Count: hourCounts[h], Sales: float64(hourSales[h]) / 100}
	}

	blocks := []struct {
		name string
		from int
		to   int // exclusive; from > to means wrap past midnight
	}{
		{"Morning", 6, 12},
		{"Afternoon", 12, 18},
		{"Evening", 18, 22},
		{"Night", 22, 6},
	}
	for i, blk := range blocks {
		var count int
		var sales int64
		for h := 0; h < 24; h++ {
			inBlock := blk.from <= h && h < blk.to
			if blk.from > blk.to {
				inBlock = h >= blk.from || h < blk.to
			}
			if inBlock {
				count += hourCounts[h]
				sales += hourSales[h]
			}
		}
		report.Blocks[i] = TimeBlockSales{Block: blk.name, Count: count, Sales: float64(sales) / 100}
	}

	return report, nil
}

// TrendGranularity selects the sales-trend bucketing period
type TrendGranularity string

const (
	TrendDaily   TrendGranularity = "daily"
	TrendWeekly  TrendGranularity = "weekly"
	TrendMonthly TrendGranularity = "monthly"
)

// TrendPoint is one period bucket of the sales trend
type TrendPoint struct {
	Period           string  `json:"period"`
	Sales            float64 `json:"sales"`
	TransactionCount int     `json:"transaction_count"`
	AvgOrderValue    float64 `json:"avg_order_value"`
}

// GetSalesTrends buckets the range's sales by period key: daily by calendar
// date, weekly by the Monday of the week (a Sunday sale lands on the Monday
// six days before it), monthly by YYYY-MM. Buckets are sorted ascending.
// Daily trends read the precomputed summaries where they exist and fall back
// to the raw transactions for dates without one.
func (s *AnalyticsService) GetSalesTrends(ctx context.Context, start, end time.Time, granularity TrendGranularity) ([]TrendPoint, error) {
	start, end = normalizeRange(start, end)

	type agg struct {
		sales int64
		count int
	}
	buckets := make(map[string]*agg)

	fromSummary := make(map[string]bool)
	if granularity == TrendDaily {
		summaries, err := s.summaryRepo.ListByDateRange(ctx, start, end)
		if err != nil {
			return nil, err
		}
		for _, sum := range summaries {
			key := sum.SummaryDate.Format("2006-01-02")
			buckets[key] = &agg{sales: sum.TotalSales, count: sum.TransactionCount}
			fromSummary[key] = true
		}
	}

	transactions, err := s.txRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, tx := range transactions {
		key := periodKey(tx.TransactionDate, granularity)
		if fromSummary[key] {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &agg{}
			buckets[key] = b
		}
		b.sales += tx.Total
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		point := TrendPoint{
			Period:           k,
			Sales:            float64(b.sales) / 100,
			TransactionCount: b.count,
		}
		if b.count > 0 {
			point.AvgOrderValue = point.Sales / float64(b.count)
		}
		points = append(points, point)
	}

	return points, nil
}

// ExpenseCategoryTotal is one category bucket of the expense breakdown
type ExpenseCategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
}

// ExpenseBreakdown groups a range's expenses by category
type ExpenseBreakdown struct {
	Categories []ExpenseCategoryTotal `json:"categories"`
	Total      float64                `json:"total"`
	Count      int                    `json:"count"`
}

// GetExpenseBreakdown groups expenses by category over the range, largest
// category first.
func (s *AnalyticsService) GetExpenseBreakdown(ctx context.Context, start, end time.Time) (*ExpenseBreakdown, error) {
	start, end = normalizeRange(start, end)

	expenses, err := s.expenseRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		amount int64
		count  int
	}
	buckets := make(map[string]*bucket)
	var total int64
	for _, e := range expenses {
		b, ok := buckets[e.Category]
		if !ok {
			b = &bucket{}
			buckets[e.Category] = b
		}
		b.amount += e.Amount
		b.count++
		total += e.Amount
	}

	breakdown := &ExpenseBreakdown{
		Categories: make([]ExpenseCategoryTotal, 0, len(buckets)),
		Total:      float64(total) / 100,
		Count:      len(expenses),
	}
	for category, b := range buckets {
		breakdown.Categories = append(breakdown.Categories, ExpenseCategoryTotal{
			Category: category,
			Amount:   float64(b.amount) / 100,
			Count:    b.count,
		})
	}
	sort.Slice(breakdown.Categories, func(i, j int) bool {
		return breakdown.Categories[i].Amount > breakdown.Categories[j].Amount
	})

	return breakdown, nil
}

// periodKey returns the bucket key for a timestamp at the given granularity
func periodKey(t time.Time, granularity TrendGranularity) string {
	switch granularity {
	case TrendWeekly:
		return mondayOf(t).Format("2006-01-02")
	case TrendMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// mondayOf returns the Monday beginning the week containing t. Go numbers
// Sunday as 0, which would otherwise pull a Sunday sale into the following
// week's Monday.
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, 1-weekday)
}

// dayBounds returns the inclusive start and end instants of date's calendar day
func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999999, date.Location())
	return start, end
}

// normalizeRange expands [start, end] to full calendar days
func normalizeRange(start, end time.Time) (time.Time, time.Time) {
	s, _ := dayBounds(start)
	_, e := dayBounds(end)
	return s, e
}
