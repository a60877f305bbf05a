package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/availability"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	service availability.AvailabilityUseCase
}

type availabilityResponse struct {
	Date      string   `json:"date"`
	Available []string `json:"available"`
	Booked    []string `json:"booked"`
	CheckedAt string   `json:"checked_at"`
}

func NewAvailabilityHandler(service availability.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/availability", h.get)
}

func (h *AvailabilityHandler) get(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		writeError(c, fmt.Errorf("%w: date query parameter is required", domain.ErrInvalidRequest))
		return
	}

	slots, err := h.service.SlotsForDate(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, availabilityResponse{
		Date:      slots.Date,
		Available: slots.Available,
		Booked:    slots.Booked,
		CheckedAt: slots.CheckedAt.Format(time.RFC3339),
	})
}
