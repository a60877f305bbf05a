package domain

import "time"

const dateLayout = "2006-01-02"

// timeSlots is the studio-wide daily grid: half-hour slots from 10:00 to 17:30.
var timeSlots = []string{
	"10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30",
	"14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

// TimeSlots returns the daily slot grid in order. The returned slice is a copy.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsTimeSlot reports whether t is a member of the daily grid.
func IsTimeSlot(t string) bool {
	for _, s := range timeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// ParseDate validates an ISO calendar date and returns it normalized.
func ParseDate(s string) (string, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", ErrInvalidRequest
	}
	return d.Format(dateLayout), nil
}

func ValidSessionType(t SessionType) bool {
	switch t {
	case SessionSolo, SessionDuo, SessionGroup, SessionFamily:
		return true
	}
	return false
}
