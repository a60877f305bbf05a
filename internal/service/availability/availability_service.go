package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/repository"
)

type AvailabilityUseCase interface {
	SlotsForDate(ctx context.Context, date string) (*DaySlots, error)
}

// RuntimeFlags gates every booking entry point before storage is touched.
type RuntimeFlags interface {
	BookingDisabled(ctx context.Context) (bool, error)
}

// DaySlots is the availability picture for one calendar date. CheckedAt is
// the read time; there is deliberately no cache in front of this read, since
// a stale available set widens the double-booking window.
type DaySlots struct {
	Date      string
	Available []string
	Booked    []string
	CheckedAt time.Time
}

type AvailabilityService struct {
	reservations repository.ReservationRepository
	flags        RuntimeFlags
}

func NewAvailabilityService(reservations repository.ReservationRepository, flags RuntimeFlags) *AvailabilityService {
	return &AvailabilityService{reservations: reservations, flags: flags}
}

func (s *AvailabilityService) SlotsForDate(ctx context.Context, date string) (*DaySlots, error) {
	if s.flags != nil {
		disabled, err := s.flags.BookingDisabled(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: flag store unreachable: %v", domain.ErrServiceUnavailable, err)
		}
		if disabled {
			return nil, domain.ErrServiceUnavailable
		}
	}

	normalized, err := domain.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidRequest)
	}

	booked, err := s.reservations.BookedTimes(ctx, normalized)
	if err != nil {
		// Never degrade to "all slots free" when the store is down.
		return nil, fmt.Errorf("%w: reading reservations: %v", domain.ErrServiceUnavailable, err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	available := make([]string, 0, len(domain.TimeSlots()))
	for _, slot := range domain.TimeSlots() {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}

	return &DaySlots{
		Date:      normalized,
		Available: available,
		Booked:    booked,
		CheckedAt: time.Now().UTC(),
	}, nil
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
