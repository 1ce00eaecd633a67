package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apppayment "github.com/mbvogue/storefront/internal/application/payment"
	"github.com/mbvogue/storefront/internal/infrastructure/payment"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
)

// maxWebhookBody bounds webhook payloads
const maxWebhookBody = 1 << 20

// PaymentHandler starts and reconciles gateway payments
type PaymentHandler struct {
	BaseHandler
	payments *apppayment.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *apppayment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Initialize handles POST /payments/initialize
func (h *PaymentHandler) Initialize(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req apppayment.InitializeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.payments.Initialize(c.Request.Context(), userID, req.CheckoutToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Verify handles POST /payments/:reference/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	h.respondVerify(c, func() (*apppayment.VerifyResult, error) {
		return h.payments.Verify(c.Request.Context(), c.Param("reference"), userID)
	})
}

// Callback handles GET /payments/callback, where the gateway redirects the
// customer after payment with ?reference= or ?trxref=
func (h *PaymentHandler) Callback(c *gin.Context) {
	reference, trxref := c.Query("reference"), c.Query("trxref")
	if reference == "" && trxref == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Missing payment reference")
		return
	}
	h.respondVerify(c, func() (*apppayment.VerifyResult, error) {
		return h.payments.Callback(c.Request.Context(), reference, trxref)
	})
}

func (h *PaymentHandler) respondVerify(c *gin.Context, verify func() (*apppayment.VerifyResult, error)) {
	result, err := verify()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Webhook handles POST /payments/webhook. The raw body is authenticated
// against the signature header before anything is parsed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unreadable body")
		return
	}
	result, err := h.payments.Webhook(c.Request.Context(), body, c.GetHeader(payment.SignatureHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /admin/payments
func (h *PaymentHandler) List(c *gin.Context) {
	var req apppayment.ListPaymentsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.payments.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// Get handles GET /admin/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
