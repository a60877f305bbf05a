package api

import (
	"fmt"
	"net/http"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	service payment.PaymentUseCase
}

type checkoutResponse struct {
	SessionID   string `json:"session_id"`
	URL         string `json:"url"`
	AmountCents int64  `json:"amount_cents"`
}

func NewCheckoutHandler(service payment.PaymentUseCase) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) Register(router *gin.RouterGroup) {
	router.POST("/checkout", h.create)
	router.GET("/checkout/:sessionID", h.confirm)
}

func (h *CheckoutHandler) create(c *gin.Context) {
	var req payment.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	session, err := h.service.StartCheckout(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		SessionID:   session.ID,
		URL:         session.URL,
		AmountCents: session.AmountCents,
	})
}

// confirm is the client-redirect callback: the success page polls it after
// the processor bounces the customer back.
func (h *CheckoutHandler) confirm(c *gin.Context) {
	result, err := h.service.ConfirmSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
