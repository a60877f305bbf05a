package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Active reports whether the reservation still occupies its slot.
func (s ReservationStatus) Active() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusCompleted
}

type SessionType string

const (
	SessionSolo   SessionType = "solo"
	SessionDuo    SessionType = "duo"
	SessionGroup  SessionType = "group"
	SessionFamily SessionType = "family"
)

// AddOns are the optional extras a customer can attach to a session.
type AddOns struct {
	RetouchedPhotos int  `json:"retouched_photos"`
	OriginalFilms   bool `json:"original_films"`
	ExtendedSession bool `json:"extended_session"`
	PetFriendly     bool `json:"pet_friendly"`
}

// Reservation binds a customer to one (date, time) slot. PaymentRef is the
// payment processor's reference and doubles as the idempotency key: writing
// the same PaymentRef twice must yield one record.
type Reservation struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	SessionDate string
	SessionTime string
	SessionType SessionType
	AddOns      AddOns
	TotalCents  int64
	PaymentRef  string
	Status      ReservationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
