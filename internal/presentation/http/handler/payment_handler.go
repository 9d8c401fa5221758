package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate     string          `json:"payment_date" binding:"required"`
	Method          *string         `json:"method"`
	ReferenceNumber *string         `json:"reference_number"`
	Notes           *string         `json:"notes"`
}

// UpdatePaymentRequest represents the update payment request body
type UpdatePaymentRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	PaymentDate     *string          `json:"payment_date"`
	Method          *string          `json:"method"`
	ReferenceNumber *string          `json:"reference_number"`
	Notes           *string          `json:"notes"`
}

func parseMethodPtr(s *string) *enum.PaymentMethod {
	if s == nil || *s == "" {
		return nil
	}
	m := enum.PaymentMethod(*s)
	return &m
}

// ListByInvoice handles listing an invoice's payments
// @Summary List Payments
// @Description Get all payments recorded against an invoice
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/payments [get]
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), *userID, invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// Record handles recording a payment against an invoice
// @Summary Record Payment
// @Description Record a payment; overshooting the balance is rejected
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body RecordPaymentRequest true "Payment data"
// @Success 201 {object} response.APIResponse
// @Router /invoices/{id}/payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		response.BadRequest(c, "Invalid payment date. Use YYYY-MM-DD")
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), &service.RecordPaymentInput{
		UserID:          *userID,
		InvoiceID:       invoiceID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate,
		Method:          parseMethodPtr(req.Method),
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// Update handles editing a payment
// @Summary Update Payment
// @Description Edit a payment and re-derive the invoice ledger
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body UpdatePaymentRequest true "Payment data"
// @Success 200 {object} response.APIResponse
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	paymentDate, err := parseDatePtr(req.PaymentDate)
	if err != nil {
		response.BadRequest(c, "Invalid payment date. Use YYYY-MM-DD")
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), &service.UpdatePaymentInput{
		UserID:          *userID,
		PaymentID:       paymentID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate,
		Method:          parseMethodPtr(req.Method),
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", payment)
}

// Delete handles deleting a payment
// @Summary Delete Payment
// @Description Delete a payment and re-derive the invoice ledger
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 204
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), *userID, paymentID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
