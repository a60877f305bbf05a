package email

import (
	"context"
	"fmt"
	"log"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/kafka"
)

// Sender turns reservation events into customer and studio notifications.
type Sender struct {
	studioEmail string
}

func NewSender(studioEmail string) *Sender {
	return &Sender{studioEmail: studioEmail}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	switch event.Type {
	case kafka.EventReservationCreated:
		fmt.Printf("send confirmation to %s: %s session on %s at %s, total %d cents\n",
			event.Email, event.SessionType, event.SessionDate, event.SessionTime, event.TotalCents)
		if s.studioEmail != "" {
			fmt.Printf("notify studio %s: new booking %s %s (%s)\n",
				s.studioEmail, event.SessionDate, event.SessionTime, event.Name)
		}
	case kafka.EventReservationConflict:
		fmt.Printf("send refund notice to %s: slot %s %s was taken, payment %s refunded\n",
			event.Email, event.SessionDate, event.SessionTime, event.PaymentRef)
		if s.studioEmail != "" {
			fmt.Printf("notify studio %s: refunded conflicting booking for %s %s\n",
				s.studioEmail, event.SessionDate, event.SessionTime)
		}
	default:
		log.Printf("skipping unknown event type %q", event.Type)
	}
	return nil
}
