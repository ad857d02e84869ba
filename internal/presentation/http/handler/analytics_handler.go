package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wicara/warungpos-api/internal/application/service"
	"github.com/wicara/warungpos-api/internal/presentation/http/dto/response"
)

// AnalyticsHandler handles reporting HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// dateRange reads start_date and end_date query params, defaulting to the
// last 30 days ending today.
func dateRange(c *gin.Context) (time.Time, time.Time) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if s := c.Query("start_date"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			start = parsed
		}
	}
	if e := c.Query("end_date"); e != "" {
		if parsed, err := time.Parse("2006-01-02", e); err == nil {
			end = parsed
		}
	}
	return start, end
}

// Summary returns the whole-range sales and expense aggregate
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	start, end := dateRange(c)

	summary, err := h.analyticsService.GetRangeSummary(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Range summary retrieved", summary)
}

// MenuItems returns per-item sales performance over the range
func (h *AnalyticsHandler) MenuItems(c *gin.Context) {
	start, end := dateRange(c)

	items, err := h.analyticsService.GetMenuItemSales(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item sales retrieved", items)
}

// BusyHours returns the hour-of-day and time-block breakdown
func (h *AnalyticsHandler) BusyHours(c *gin.Context) {
	start, end := dateRange(c)

	report, err := h.analyticsService.GetBusyHours(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Busy hours retrieved", report)
}

// Trends returns period-bucketed sales. The granularity query param accepts
// daily, weekly or monthly and defaults to daily.
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	start, end := dateRange(c)

	granularity := service.TrendGranularity(c.DefaultQuery("granularity", "daily"))
	switch granularity {
	case service.TrendDaily, service.TrendWeekly, service.TrendMonthly:
	default:
		response.BadRequest(c, "Unknown granularity: "+string(granularity))
		return
	}

	points, err := h.analyticsService.GetSalesTrends(c.Request.Context(), start, end, granularity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales trends retrieved", points)
}

// Expenses returns the category breakdown of expenses over the range
func (h *AnalyticsHandler) Expenses(c *gin.Context) {
	start, end := dateRange(c)

	breakdown, err := h.analyticsService.GetExpenseBreakdown(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense breakdown retrieved", breakdown)
}
