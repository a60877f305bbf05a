package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

// AdminFlags is the writable side of the runtime booking-disabled flag.
type AdminFlags interface {
	BookingDisabled(ctx context.Context) (bool, error)
	SetBookingDisabled(ctx context.Context, disabled bool) error
}

type AdminHandler struct {
	reservations reservation.ReservationUseCase
	flags        AdminFlags
	token        string
}

func NewAdminHandler(reservations reservation.ReservationUseCase, flags AdminFlags, token string) *AdminHandler {
	return &AdminHandler{reservations: reservations, flags: flags, token: token}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	admin := router.Group("/admin", requireToken(h.token))
	admin.DELETE("/reservations/:id", h.deleteReservation)
	admin.PUT("/reservations/:id/complete", h.completeReservation)
	admin.GET("/booking-disabled", h.getDisabled)
	admin.PUT("/booking-disabled", h.setDisabled)
}

// requireToken guards operator-only routes with a constant-time bearer check.
func requireToken(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthorized"})
			return
		}
		c.Next()
	}
}

// deleteReservation is the only path that removes a reservation; the booking
// lifecycle itself never deletes.
func (h *AdminHandler) deleteReservation(c *gin.Context) {
	if err := h.reservations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) completeReservation(c *gin.Context) {
	res, err := h.reservations.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

func (h *AdminHandler) getDisabled(c *gin.Context) {
	disabled, err := h.flags.BookingDisabled(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disabled": disabled})
}

func (h *AdminHandler) setDisabled(c *gin.Context) {
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidRequest})
		return
	}
	if err := h.flags.SetBookingDisabled(c.Request.Context(), req.Disabled); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disabled": req.Disabled})
}
