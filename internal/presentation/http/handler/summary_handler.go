package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wicara/warungpos-api/internal/application/service"
	"github.com/wicara/warungpos-api/internal/presentation/http/dto/response"
)

// SummaryHandler handles daily rollup HTTP requests
type SummaryHandler struct {
	analyticsService *service.AnalyticsService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(analyticsService *service.AnalyticsService) *SummaryHandler {
	return &SummaryHandler{analyticsService: analyticsService}
}

func summaryDate(c *gin.Context) (time.Time, bool) {
	dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// Get returns the stored rollup for a date
func (h *SummaryHandler) Get(c *gin.Context) {
	date, ok := summaryDate(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.GetDailySummary(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	if summary == nil {
		response.NotFound(c, "No summary for "+date.Format("2006-01-02"))
		return
	}

	response.OK(c, "Daily summary retrieved", summary)
}

// Recompute rebuilds the rollup row for a date from the raw records
func (h *SummaryHandler) Recompute(c *gin.Context) {
	date, ok := summaryDate(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.RecomputeDailySummary(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily summary recomputed", summary)
}
