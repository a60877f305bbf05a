package api

import (
	"errors"
	"net/http"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/payment"
	"github.com/gin-gonic/gin"
)

// Stable machine-readable codes; clients key their messaging off these, not
// off the human-readable text.
const (
	codeInvalidRequest     = "invalid_request"
	codeServiceUnavailable = "service_unavailable"
	codeSlotTaken          = "slot_taken"
	codeNotFound           = "not_found"
	codeUpstreamError      = "upstream_error"
	codePaymentRefunded    = "payment_refunded"
	codeInternal           = "internal_error"
)

func writeError(c *gin.Context, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "code": codeSlotTaken})
	case errors.Is(err, payment.ErrPaymentRefunded):
		c.JSON(http.StatusConflict, gin.H{"error": "booking could not be written; the payment was refunded", "code": codePaymentRefunded})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidRequest})
	case errors.Is(err, domain.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking is temporarily unavailable", "code": codeServiceUnavailable})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": codeNotFound})
	case errors.Is(err, domain.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream call failed", "code": codeUpstreamError})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": codeInternal})
	}
}
