package handler

import (
	"errors"
	"net/http"

	integrationapp "github.com/erp/edigateway/internal/application/integration"
	"github.com/erp/edigateway/internal/domain/shared"
	"github.com/erp/edigateway/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// EDIHandler handles the partner-facing EDI endpoints: the inbound EDI-850
// webhook and the outbound EDI-810 invoice trigger.
type EDIHandler struct {
	BaseHandler
	ediService *integrationapp.EDIService
}

// NewEDIHandler creates a new EDIHandler
func NewEDIHandler(ediService *integrationapp.EDIService) *EDIHandler {
	return &EDIHandler{
		ediService: ediService,
	}
}

// ReceivePurchaseOrder accepts an EDI-850 document from the hub and stores it
// as a purchase order.
//
//	POST /webhook/zenbridge/inbound-850
func (h *EDIHandler) ReceivePurchaseOrder(c *gin.Context) {
	var req integrationapp.Inbound850Request
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		middleware.HandleBindingError(c, err)
		return
	}

	id, err := h.ediService.ReceivePurchaseOrder(c.Request.Context(), req.ToDocument())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, integrationapp.NewWebhookAck(id))
}

// SendInvoice maps a stored order to an EDI-810 invoice and delivers it to
// the partner. Delivery failures are answered with a problem response.
//
//	POST /erp/orders/:id/send-invoice
func (h *EDIHandler) SendInvoice(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		h.BadRequest(c, "Order ID must be a positive integer")
		return
	}

	result, err := h.ediService.SendInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Order not found")
			return
		}
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, integrationapp.NewSendInvoiceResponse(result))
}
