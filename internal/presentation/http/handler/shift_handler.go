package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/application/service"
	"github.com/wicara/warungpos-api/internal/presentation/http/dto/response"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// ShiftHandler handles shift lifecycle HTTP requests
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Open handles opening a shift with a counted float
func (h *ShiftHandler) Open(c *gin.Context) {
	var req struct {
		OpeningCash float64 `json:"opening_cash"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid shift payload: "+err.Error())
		return
	}

	shift, err := h.shiftService.Open(c.Request.Context(), int64(req.OpeningCash*100+0.5))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shift opened", shift)
}

// Close reconciles and closes the active shift
func (h *ShiftHandler) Close(c *gin.Context) {
	var req struct {
		ClosingCash float64 `json:"closing_cash"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid shift payload: "+err.Error())
		return
	}

	shift, err := h.shiftService.Close(c.Request.Context(), int64(req.ClosingCash*100+0.5), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift closed", shift)
}

// Current returns the active shift, if any
func (h *ShiftHandler) Current(c *gin.Context) {
	shift, err := h.shiftService.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current shift retrieved", shift)
}

// Get handles retrieving a single shift
func (h *ShiftHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	shift, err := h.shiftService.GetShift(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift retrieved successfully", shift)
}

// List handles listing shifts
func (h *ShiftHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.shiftService.ListShifts(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Shifts retrieved successfully", result)
}

// BalanceSheet returns the live reconciliation view for a shift
func (h *ShiftHandler) BalanceSheet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	sheet, err := h.shiftService.GetBalanceSheet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance sheet retrieved", sheet)
}
