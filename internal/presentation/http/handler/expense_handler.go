package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wicara/warungpos-api/internal/application/service"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/repository"
	"github.com/wicara/warungpos-api/internal/presentation/http/dto/response"
	"github.com/wicara/warungpos-api/pkg/pagination"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create handles recording an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req struct {
		Amount      float64 `json:"amount" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid expense payload: "+err.Error())
		return
	}

	expense, err := h.expenseService.RecordExpense(c.Request.Context(), &service.RecordExpenseInput{
		Amount:      int64(req.Amount*100 + 0.5),
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense recorded", expense)
}

// Get handles retrieving a single expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense retrieved successfully", expense)
}

// List handles listing expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ExpenseFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Category: c.Query("category"),
	}

	if shiftIDStr := c.Query("shift_id"); shiftIDStr != "" {
		if shiftID, err := uuid.Parse(shiftIDStr); err == nil {
			params.ShiftID = &shiftID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endOfDay := endDate.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &endOfDay
		}
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult[entity.Expense](
		expenses,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	)
	response.SuccessWithPagination(c, 200, "Expenses retrieved successfully", result)
}
