package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/payment"
	"github.com/gin-gonic/gin"
)

// signatureHeader is the header the processor signs deliveries with.
const signatureHeader = "Payment-Signature"

type WebhookHandler struct {
	service payment.PaymentUseCase
}

func NewWebhookHandler(service payment.PaymentUseCase) *WebhookHandler {
	return &WebhookHandler{service: service}
}

func (h *WebhookHandler) Register(router *gin.RouterGroup) {
	router.POST("/webhooks/payment", h.handle)
}

// handle acknowledges with 200 once the event has been handled, even when the
// handling outcome was a refund: a 200 is what stops processor retries. A
// storage or refund failure returns 5xx so the processor redelivers.
func (h *WebhookHandler) handle(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body", "code": codeInvalidRequest})
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, payment.ErrBadSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature", "code": codeInvalidRequest})
	case domain.IsConflict(err):
		// The event was fully handled; its outcome was a refund.
		c.JSON(http.StatusOK, gin.H{"received": true, "code": codeSlotTaken})
	case errors.Is(err, payment.ErrPaymentRefunded):
		// Unwritable payload, money already returned; handled.
		c.JSON(http.StatusOK, gin.H{"received": true, "code": codePaymentRefunded})
	case errors.Is(err, domain.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking is temporarily unavailable", "code": codeServiceUnavailable})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidRequest})
	default:
		log.Printf("webhook processing failed, asking for redelivery: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed", "code": codeUpstreamError})
	}
}
