package cache

import (
	"context"

	"github.com/angeleo1/Emotional-Studio-sub001/config"
	"github.com/redis/go-redis/v9"
)

// RuntimeFlags holds booking runtime state in Redis so that every instance
// of the service sees the same value; a process-local flag would drift under
// horizontal scaling.
type RuntimeFlags struct {
	client          *redis.Client
	disabledDefault bool
}

func NewRuntimeFlags(cfg config.RedisConfig, disabledDefault bool) *RuntimeFlags {
	return &RuntimeFlags{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		disabledDefault: disabledDefault,
	}
}

// BookingDisabled reports whether booking is administratively disabled.
// When the flag has never been set, the config default applies.
func (f *RuntimeFlags) BookingDisabled(ctx context.Context) (bool, error) {
	val, err := f.client.Get(ctx, bookingDisabledKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return f.disabledDefault, nil
		}
		return false, err
	}
	return val == "1", nil
}

func (f *RuntimeFlags) SetBookingDisabled(ctx context.Context, disabled bool) error {
	val := "0"
	if disabled {
		val = "1"
	}
	return f.client.Set(ctx, bookingDisabledKey(), val, 0).Err()
}

func (f *RuntimeFlags) Close() error {
	return f.client.Close()
}

func bookingDisabledKey() string {
	return "booking:disabled"
}
