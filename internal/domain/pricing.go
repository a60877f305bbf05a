package domain

import "fmt"

// Base session prices in cents. Every charge in the system derives from
// PriceFor; client-supplied totals are never trusted.
var basePriceCents = map[SessionType]int64{
	SessionSolo:   55000,
	SessionDuo:    85000,
	SessionGroup:  120000,
	SessionFamily: 140000,
}

const (
	retouchedPhotoCents  = 2500
	originalFilmsCents   = 15000
	extendedSessionCents = 30000
	petFriendlyCents     = 10000
)

// PriceFor computes the total price for a session type and add-on set.
// It is pure: same inputs, same total.
func PriceFor(t SessionType, a AddOns) (int64, error) {
	base, ok := basePriceCents[t]
	if !ok {
		return 0, fmt.Errorf("%w: unknown session type %q", ErrInvalidRequest, t)
	}
	if a.RetouchedPhotos < 0 {
		return 0, fmt.Errorf("%w: negative retouched photo count", ErrInvalidRequest)
	}

	total := base
	total += int64(a.RetouchedPhotos) * retouchedPhotoCents
	if a.OriginalFilms {
		total += originalFilmsCents
	}
	if a.ExtendedSession {
		total += extendedSessionCents
	}
	if a.PetFriendly {
		total += petFriendlyCents
	}
	return total, nil
}
