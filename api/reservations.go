package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service reservation.ReservationUseCase
	token   string
}

type reservationResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	SessionDate string        `json:"session_date"`
	SessionTime string        `json:"session_time"`
	SessionType string        `json:"session_type"`
	AddOns      domain.AddOns `json:"add_ons"`
	TotalCents  int64         `json:"total_cents"`
	PaymentRef  string        `json:"payment_ref"`
	Status      string        `json:"status"`
	CreatedAt   string        `json:"created_at"`
}

func toReservationResponse(res *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:          res.ID,
		Name:        res.Name,
		Email:       res.Email,
		Phone:       res.Phone,
		SessionDate: res.SessionDate,
		SessionTime: res.SessionTime,
		SessionType: string(res.SessionType),
		AddOns:      res.AddOns,
		TotalCents:  res.TotalCents,
		PaymentRef:  res.PaymentRef,
		Status:      string(res.Status),
		CreatedAt:   res.CreatedAt.Format(time.RFC3339),
	}
}

func NewReservationHandler(service reservation.ReservationUseCase, token string) *ReservationHandler {
	return &ReservationHandler{service: service, token: token}
}

// Register wires the reservation routes. The direct write takes a bearer
// token: customers book through checkout and the bridge, so the only callers
// writing here are operators reconciling a payment by hand.
func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/reservations", requireToken(h.token), h.create)
	router.GET("/reservations/:id", h.get)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req reservation.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(res))
}

func (h *ReservationHandler) get(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toReservationResponse(res))
}
