package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/wicara/warungpos-api/internal/application/service"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/internal/domain/extraction"
	"github.com/wicara/warungpos-api/internal/presentation/http/dto/response"
)

// SessionHandler handles the order-in-progress endpoints: extraction intake,
// the confirmation workflow, manual cart edits and checkout.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// ProcessExtraction handles an incoming extractor result for a session
func (h *SessionHandler) ProcessExtraction(c *gin.Context) {
	var raw extraction.RawResult
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.BadRequest(c, "Invalid extraction payload: "+err.Error())
		return
	}

	snapshot, err := h.sessionService.ProcessExtraction(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Extraction processed", snapshot)
}

// ConfirmQuantities handles the quantity confirmation answers
func (h *SessionHandler) ConfirmQuantities(c *gin.Context) {
	var req struct {
		Items []service.QuantityConfirmation `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid confirmation payload: "+err.Error())
		return
	}

	snapshot, err := h.sessionService.ConfirmQuantities(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantities confirmed", snapshot)
}

// SkipQuantities discards the pending quantity confirmations
func (h *SessionHandler) SkipQuantities(c *gin.Context) {
	snapshot, err := h.sessionService.SkipQuantities(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity confirmations skipped", snapshot)
}

// ConfirmPrices handles the price confirmation answers
func (h *SessionHandler) ConfirmPrices(c *gin.Context) {
	var req struct {
		Items []service.PriceConfirmation `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid confirmation payload: "+err.Error())
		return
	}

	snapshot, err := h.sessionService.ConfirmPrices(c.Param("id"), req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Prices confirmed", snapshot)
}

// SkipPrices discards the pending price confirmations
func (h *SessionHandler) SkipPrices(c *gin.Context) {
	snapshot, err := h.sessionService.SkipPrices(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price confirmations skipped", snapshot)
}

// AddItem adds a manually typed line to the cart
func (h *SessionHandler) AddItem(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Quantity int     `json:"quantity" binding:"required"`
		Price    float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid item payload: "+err.Error())
		return
	}

	snapshot, err := h.sessionService.AddManualItem(c.Param("id"), req.Name, req.Quantity, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", snapshot)
}

// RemoveItem deletes a cart line by name
func (h *SessionHandler) RemoveItem(c *gin.Context) {
	snapshot, err := h.sessionService.RemoveItem(c.Param("id"), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", snapshot)
}

// Reset clears the session's cart and pending confirmations
func (h *SessionHandler) Reset(c *gin.Context) {
	snapshot := h.sessionService.Reset(c.Param("id"))
	response.OK(c, "Session reset", snapshot)
}

// Get returns the current session snapshot
func (h *SessionHandler) Get(c *gin.Context) {
	snapshot := h.sessionService.Snapshot(c.Param("id"))
	response.OK(c, "Session retrieved", snapshot)
}

// Checkout commits the session's cart as a sale
func (h *SessionHandler) Checkout(c *gin.Context) {
	var req struct {
		PaymentMethod   string   `json:"payment_method" binding:"required"`
		PaymentReceived *float64 `json:"payment_received"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid checkout payload: "+err.Error())
		return
	}

	method := enum.ParsePaymentMethod(req.PaymentMethod)

	tx, err := h.sessionService.Checkout(c.Request.Context(), c.Param("id"), method, req.PaymentReceived)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale committed", tx)
}
