package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/kafka"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/reservation"
)

// CheckoutState tracks one checkout attempt. Nothing is reserved before
// StateReservationWritten, so an abandoned checkout holds no slot.
type CheckoutState string

const (
	StateInitiated          CheckoutState = "INITIATED"
	StatePaymentPending     CheckoutState = "PAYMENT_PENDING"
	StatePaymentConfirmed   CheckoutState = "PAYMENT_CONFIRMED"
	StateReservationWritten CheckoutState = "RESERVATION_WRITTEN"
	StatePaymentFailed      CheckoutState = "PAYMENT_FAILED"
	StateCancelled          CheckoutState = "CANCELLED"
)

type PaymentUseCase interface {
	StartCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	ConfirmSession(ctx context.Context, sessionID string) (*CheckoutResult, error)
}

type RuntimeFlags interface {
	BookingDisabled(ctx context.Context) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Writer is the reservation writer the bridge converges on. Its upsert by
// payment reference is what makes duplicate deliveries safe.
type Writer interface {
	Create(ctx context.Context, input reservation.CreateInput) (*domain.Reservation, error)
}

// CheckoutInput is what the client submits before being redirected to the
// processor. No total is accepted from the client.
type CheckoutInput struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	SessionDate string             `json:"session_date"`
	SessionTime string             `json:"session_time"`
	SessionType domain.SessionType `json:"session_type"`
	AddOns      domain.AddOns      `json:"add_ons"`
}

// CheckoutResult is the callback-path answer: where the attempt stands and,
// once written, the reservation itself.
type CheckoutResult struct {
	State       CheckoutState       `json:"state"`
	Reservation *domain.Reservation `json:"reservation,omitempty"`
}

// webhookEvent is the signed envelope the processor delivers.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Session CheckoutSession `json:"object"`
	} `json:"data"`
}

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventCheckoutFailed    = "checkout.session.failed"
	eventCheckoutExpired   = "checkout.session.expired"
)

// ErrPaymentRefunded marks a paid session that could not become a reservation
// and whose payment has already gone back to the customer. The delivery that
// carried it counts as handled.
var ErrPaymentRefunded = errors.New("payment refunded")

type PaymentService struct {
	processor          ProcessorClient
	writer             Writer
	flags              RuntimeFlags
	producer           Producer
	webhookSecret      string
	notificationsTopic string
	now                func() time.Time
}

type PaymentServiceOption func(*PaymentService)

func WithNotificationsTopic(topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.notificationsTopic = topic
	}
}

// WithClock overrides the wall clock used for signature tolerance checks.
func WithClock(now func() time.Time) PaymentServiceOption {
	return func(s *PaymentService) {
		s.now = now
	}
}

func NewPaymentService(
	processor ProcessorClient,
	writer Writer,
	flags RuntimeFlags,
	producer Producer,
	webhookSecret string,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		processor:     processor,
		writer:        writer,
		flags:         flags,
		producer:      producer,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// StartCheckout validates the booking intent, prices it server-side, and
// opens a processor session whose metadata carries the whole payload. The
// metadata is read back verbatim after payment; the original form data is
// never resent.
func (s *PaymentService) StartCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error) {
	if err := s.gate(ctx); err != nil {
		return nil, err
	}

	// Everything the writer will demand after payment is checked here,
	// before the customer is charged against it.
	if err := reservation.ValidateCustomer(input.Name, input.Email, input.Phone); err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(input.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: session_date must be YYYY-MM-DD", domain.ErrInvalidRequest)
	}
	if !domain.IsTimeSlot(input.SessionTime) {
		return nil, fmt.Errorf("%w: %q is not a bookable time", domain.ErrInvalidRequest, input.SessionTime)
	}
	if !domain.ValidSessionType(input.SessionType) {
		return nil, fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidRequest, input.SessionType)
	}
	total, err := domain.PriceFor(input.SessionType, input.AddOns)
	if err != nil {
		return nil, err
	}

	session, err := s.processor.CreateSession(ctx, CreateSessionRequest{
		AmountCents: total,
		Currency:    "aud",
		Metadata: map[string]string{
			"name":             input.Name,
			"email":            input.Email,
			"phone":            input.Phone,
			"session_date":     date,
			"session_time":     input.SessionTime,
			"session_type":     string(input.SessionType),
			"retouched_photos": strconv.Itoa(input.AddOns.RetouchedPhotos),
			"original_films":   strconv.FormatBool(input.AddOns.OriginalFilms),
			"extended_session": strconv.FormatBool(input.AddOns.ExtendedSession),
			"pet_friendly":     strconv.FormatBool(input.AddOns.PetFriendly),
			"total_cents":      strconv.FormatInt(total, 10),
		},
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// HandleWebhook verifies and applies one processor delivery. Deliveries are
// at-least-once; applying the same confirmation twice converges on a single
// reservation through the writer's upsert.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := s.gate(ctx); err != nil {
		return err
	}

	if err := VerifySignature(payload, signatureHeader, s.webhookSecret, s.now()); err != nil {
		log.Printf("rejected webhook delivery: %v", err)
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed event payload", domain.ErrInvalidRequest)
	}

	switch event.Type {
	case eventCheckoutCompleted:
		_, err := s.writeReservation(ctx, &event.Data.Session)
		return err
	case eventCheckoutFailed, eventCheckoutExpired:
		// Terminal without a reservation; the slot was never held.
		log.Printf("checkout %s ended without payment (%s)", event.Data.Session.ID, event.Type)
		return nil
	default:
		log.Printf("ignoring event type %q", event.Type)
		return nil
	}
}

// ConfirmSession is the client-redirect path: after the processor bounces the
// customer back, the success page asks us to settle the session. The write
// goes through the same payment reference as the webhook path.
func (s *PaymentService) ConfirmSession(ctx context.Context, sessionID string) (*CheckoutResult, error) {
	if err := s.gate(ctx); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidRequest)
	}

	session, err := s.processor.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.PaymentStatus {
	case paymentStatusPaid:
		res, err := s.writeReservation(ctx, session)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{State: StateReservationWritten, Reservation: res}, nil
	case paymentStatusFailed:
		return &CheckoutResult{State: StatePaymentFailed}, nil
	default:
		return &CheckoutResult{State: StatePaymentPending}, nil
	}
}

// writeReservation converts a paid session into a reservation write. A slot
// conflict is terminal for this attempt: the payment is refunded and a
// conflict notification goes out, while duplicate deliveries of an already
// written session pass through untouched. A paid session the writer refuses
// outright is refunded too; money taken against an unwritable payload must
// never just sit there.
func (s *PaymentService) writeReservation(ctx context.Context, session *CheckoutSession) (*domain.Reservation, error) {
	input, err := inputFromMetadata(session)
	if err != nil {
		return nil, s.refundUnwritable(ctx, session.PaymentRef, err)
	}

	res, err := s.writer.Create(ctx, input)
	if err == nil {
		return res, nil
	}
	switch {
	case domain.IsConflict(err):
		log.Printf("slot conflict for payment %s, refunding", session.PaymentRef)
		if refundErr := s.processor.Refund(ctx, session.PaymentRef); refundErr != nil {
			// Escalate: a paid, unwritable, unrefunded booking must not vanish.
			log.Printf("ERROR: refund of %s failed, manual reconciliation needed: %v", session.PaymentRef, refundErr)
			return nil, fmt.Errorf("%w: refund after conflict: %v", domain.ErrUpstream, refundErr)
		}
		s.publishConflict(ctx, input)
		return nil, err
	case errors.Is(err, domain.ErrInvalidRequest):
		return nil, s.refundUnwritable(ctx, session.PaymentRef, err)
	}
	return nil, err
}

// refundUnwritable settles a paid session whose payload the writer cannot
// accept: the money goes back and the caller acknowledges the delivery. A
// failed refund keeps the delivery in redelivery until an operator steps in.
func (s *PaymentService) refundUnwritable(ctx context.Context, paymentRef string, cause error) error {
	if paymentRef == "" {
		log.Printf("ERROR: paid session carries no payment reference, manual reconciliation needed: %v", cause)
		return fmt.Errorf("%w: paid session carries no payment reference", domain.ErrUpstream)
	}
	log.Printf("unwritable booking for payment %s, refunding: %v", paymentRef, cause)
	if refundErr := s.processor.Refund(ctx, paymentRef); refundErr != nil {
		log.Printf("ERROR: refund of %s failed, manual reconciliation needed: %v", paymentRef, refundErr)
		return fmt.Errorf("%w: refund of unwritable booking: %v", domain.ErrUpstream, refundErr)
	}
	return fmt.Errorf("%w: %v", ErrPaymentRefunded, cause)
}

func inputFromMetadata(session *CheckoutSession) (reservation.CreateInput, error) {
	m := session.Metadata
	if m == nil || session.PaymentRef == "" {
		return reservation.CreateInput{}, fmt.Errorf("%w: session carries no booking metadata", domain.ErrInvalidRequest)
	}

	photos, _ := strconv.Atoi(m["retouched_photos"])
	total, _ := strconv.ParseInt(m["total_cents"], 10, 64)
	return reservation.CreateInput{
		Name:        m["name"],
		Email:       m["email"],
		Phone:       m["phone"],
		SessionDate: m["session_date"],
		SessionTime: m["session_time"],
		SessionType: domain.SessionType(m["session_type"]),
		AddOns: domain.AddOns{
			RetouchedPhotos: photos,
			OriginalFilms:   m["original_films"] == "true",
			ExtendedSession: m["extended_session"] == "true",
			PetFriendly:     m["pet_friendly"] == "true",
		},
		TotalCents: total,
		PaymentRef: session.PaymentRef,
	}, nil
}

func (s *PaymentService) publishConflict(ctx context.Context, input reservation.CreateInput) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:        kafka.EventReservationConflict,
		PaymentRef:  input.PaymentRef,
		Name:        input.Name,
		Email:       input.Email,
		SessionDate: input.SessionDate,
		SessionTime: input.SessionTime,
		SessionType: string(input.SessionType),
		TotalCents:  input.TotalCents,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, input.PaymentRef, event); err != nil {
		log.Printf("WARNING: failed to publish reservation_conflict for %s: %v", input.PaymentRef, err)
	}
}

func (s *PaymentService) gate(ctx context.Context) error {
	if s.flags == nil {
		return nil
	}
	disabled, err := s.flags.BookingDisabled(ctx)
	if err != nil {
		return fmt.Errorf("%w: flag store unreachable: %v", domain.ErrServiceUnavailable, err)
	}
	if disabled {
		return domain.ErrServiceUnavailable
	}
	return nil
}

var _ PaymentUseCase = (*PaymentService)(nil)
