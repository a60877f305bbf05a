package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/kafka"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/repository"
	"github.com/google/uuid"
)

type ReservationUseCase interface {
	Create(ctx context.Context, input CreateInput) (*domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	Complete(ctx context.Context, id string) (*domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type RuntimeFlags interface {
	BookingDisabled(ctx context.Context) (bool, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// publishRetries bounds how often a notification publish is retried before
// the failure is logged and the write proceeds anyway.
const publishRetries = 3

// CreateInput is the fully-formed booking payload the bridge hands over after
// payment confirmation. TotalCents is advisory: the service recomputes the
// total from trusted inputs and the recomputed value wins.
type CreateInput struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	SessionDate string             `json:"session_date"`
	SessionTime string             `json:"session_time"`
	SessionType domain.SessionType `json:"session_type"`
	AddOns      domain.AddOns      `json:"add_ons"`
	TotalCents  int64              `json:"total_cents"`
	PaymentRef  string             `json:"payment_ref"`
}

type ReservationService struct {
	reservations       repository.ReservationRepository
	flags              RuntimeFlags
	producer           Producer
	notificationsTopic string
}

type ReservationServiceOption func(*ReservationService)

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func NewReservationService(
	reservations repository.ReservationRepository,
	flags RuntimeFlags,
	producer Producer,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		reservations: reservations,
		flags:        flags,
		producer:     producer,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create persists a confirmed reservation. It is an idempotent upsert keyed
// by payment reference: a second call with the same PaymentRef returns the
// stored reservation and publishes nothing.
func (s *ReservationService) Create(ctx context.Context, input CreateInput) (*domain.Reservation, error) {
	if s.flags != nil {
		disabled, err := s.flags.BookingDisabled(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: flag store unreachable: %v", domain.ErrServiceUnavailable, err)
		}
		if disabled {
			return nil, domain.ErrServiceUnavailable
		}
	}

	if err := validate(input); err != nil {
		return nil, err
	}

	total, err := domain.PriceFor(input.SessionType, input.AddOns)
	if err != nil {
		return nil, err
	}
	if input.TotalCents != 0 && input.TotalCents != total {
		log.Printf("total mismatch for payment %s: client %d, computed %d; using computed",
			input.PaymentRef, input.TotalCents, total)
	}

	date, err := domain.ParseDate(input.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: session_date must be YYYY-MM-DD", domain.ErrInvalidRequest)
	}

	res := &domain.Reservation{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		SessionDate: date,
		SessionTime: input.SessionTime,
		SessionType: input.SessionType,
		AddOns:      input.AddOns,
		TotalCents:  total,
		PaymentRef:  input.PaymentRef,
	}

	created, err := s.reservations.CreateConfirmed(ctx, res)
	if err != nil {
		return nil, err
	}
	if !created {
		// Duplicate delivery: the stored row is the source of truth.
		return res, nil
	}

	if err := s.publish(ctx, kafka.EventReservationCreated, res); err != nil {
		log.Printf("WARNING: failed to publish reservation_created for %s: %v", res.ID, err)
	}
	return res, nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed reservation id", domain.ErrInvalidRequest)
	}
	return s.reservations.GetByID(ctx, id)
}

// Complete advances a confirmed reservation after the session took place.
func (s *ReservationService) Complete(ctx context.Context, id string) (*domain.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed reservation id", domain.ErrInvalidRequest)
	}
	updated, err := s.reservations.Complete(ctx, id)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// The guarded UPDATE only matches confirmed rows; read back to tell a
	// missing reservation from one that is past that status.
	existing, getErr := s.reservations.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	switch existing.Status {
	case domain.ReservationStatusCompleted:
		// Completing twice is a no-op, not an error.
		return existing, nil
	case domain.ReservationStatusCancelled:
		return nil, fmt.Errorf("%w: cannot complete a cancelled reservation", domain.ErrInvalidRequest)
	}
	return nil, err
}

// Delete removes a reservation outright. Administrative action only; the
// normal lifecycle never deletes.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed reservation id", domain.ErrInvalidRequest)
	}
	return s.reservations.Delete(ctx, id)
}

// ValidateCustomer checks the identity fields every booking must carry. The
// checkout path runs it before any money moves so that a paid session can
// never carry an identity the writer would refuse.
func ValidateCustomer(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%w: phone is required", domain.ErrInvalidRequest)
	}
	return nil
}

func validate(input CreateInput) error {
	if err := ValidateCustomer(input.Name, input.Email, input.Phone); err != nil {
		return err
	}
	if input.PaymentRef == "" {
		return fmt.Errorf("%w: payment reference is required", domain.ErrInvalidRequest)
	}
	if !domain.IsTimeSlot(input.SessionTime) {
		return fmt.Errorf("%w: %q is not a bookable time", domain.ErrInvalidRequest, input.SessionTime)
	}
	if !domain.ValidSessionType(input.SessionType) {
		return fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidRequest, input.SessionType)
	}
	return nil
}

func (s *ReservationService) publish(ctx context.Context, eventType string, res *domain.Reservation) error {
	if s.producer == nil || s.notificationsTopic == "" {
		return nil
	}
	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		PaymentRef:    res.PaymentRef,
		Name:          res.Name,
		Email:         res.Email,
		SessionDate:   res.SessionDate,
		SessionTime:   res.SessionTime,
		SessionType:   string(res.SessionType),
		TotalCents:    res.TotalCents,
		Status:        string(res.Status),
		OccurredAt:    time.Now().UTC(),
	}
	return s.producer.PublishWithRetry(ctx, s.notificationsTopic, res.PaymentRef, event, publishRetries)
}

var _ ReservationUseCase = (*ReservationService)(nil)
