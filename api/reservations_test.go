package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReservationUseCase is a mock implementation of reservation.ReservationUseCase
type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) Create(ctx context.Context, input reservation.CreateInput) (*domain.Reservation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Complete(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestReservationHandler_create(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, "ops-token")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := reservation.CreateInput{
		Name:        "Mina Park",
		Email:       "mina@example.com",
		Phone:       "+61 400 000 000",
		SessionDate: "2025-09-17",
		SessionTime: "14:00",
		SessionType: domain.SessionDuo,
		PaymentRef:  "pi_abc123",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	res := &domain.Reservation{
		ID:          "res-1",
		Name:        "Mina Park",
		SessionDate: "2025-09-17",
		SessionTime: "14:00",
		SessionType: domain.SessionDuo,
		TotalCents:  85000,
		PaymentRef:  "pi_abc123",
		Status:      domain.ReservationStatusConfirmed,
	}
	mockService.On("Create", c.Request.Context(), input).Return(res, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response reservationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "res-1", response.ID)
	assert.Equal(t, int64(85000), response.TotalCents)
	assert.Equal(t, string(domain.ReservationStatusConfirmed), response.Status)

	mockService.AssertExpectations(t)
}

func TestReservationHandler_createConflict(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, "ops-token")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(reservation.CreateInput{
		Name:        "Mina Park",
		Email:       "mina@example.com",
		Phone:       "+61 400 000 000",
		SessionDate: "2025-09-17",
		SessionTime: "14:00",
		SessionType: domain.SessionDuo,
		PaymentRef:  "pi_other",
	})
	c.Request = httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).
		Return(nil, &domain.ConflictError{SessionDate: "2025-09-17", SessionTime: "14:00"})

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slot_taken")
}

func TestReservationHandler_createDisabled(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, "ops-token")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(reservation.CreateInput{Name: "x"})
	c.Request = httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).
		Return(nil, domain.ErrServiceUnavailable)

	handler.create(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service_unavailable")
}

func reservationRouter(handler *ReservationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.Register(router.Group("/api/v1"))
	return router
}

func TestReservationHandler_createRequiresToken(t *testing.T) {
	mockService := &MockReservationUseCase{}
	router := reservationRouter(NewReservationHandler(mockService, "ops-token"))

	body, _ := json.Marshal(reservation.CreateInput{Name: "x"})
	req := httptest.NewRequest("POST", "/api/v1/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReservationHandler_createWithToken(t *testing.T) {
	mockService := &MockReservationUseCase{}
	router := reservationRouter(NewReservationHandler(mockService, "ops-token"))

	body, _ := json.Marshal(reservation.CreateInput{
		Name:        "Mina Park",
		Email:       "mina@example.com",
		Phone:       "+61 400 000 000",
		SessionDate: "2025-09-17",
		SessionTime: "14:00",
		SessionType: domain.SessionDuo,
		PaymentRef:  "pi_abc123",
	})
	req := httptest.NewRequest("POST", "/api/v1/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer ops-token")
	w := httptest.NewRecorder()

	mockService.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: "res-1", Status: domain.ReservationStatusConfirmed}, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReservationHandler_getIsPublic(t *testing.T) {
	mockService := &MockReservationUseCase{}
	router := reservationRouter(NewReservationHandler(mockService, "ops-token"))

	id := "2f0b94df-9f5c-4f36-9446-3e89bc3b5b4e"
	mockService.On("Get", mock.Anything, id).
		Return(&domain.Reservation{ID: id, Status: domain.ReservationStatusConfirmed}, nil)

	req := httptest.NewRequest("GET", "/api/v1/reservations/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationHandler_get(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, "ops-token")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := "2f0b94df-9f5c-4f36-9446-3e89bc3b5b4e"
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest("GET", "/reservations/"+id, nil)

	mockService.On("Get", c.Request.Context(), id).
		Return(&domain.Reservation{ID: id, Status: domain.ReservationStatusConfirmed}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationHandler_getNotFound(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService, "ops-token")

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := "2f0b94df-9f5c-4f36-9446-3e89bc3b5b4e"
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Request = httptest.NewRequest("GET", "/reservations/"+id, nil)

	mockService.On("Get", c.Request.Context(), id).Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}
