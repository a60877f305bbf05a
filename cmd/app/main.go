package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeleo1/Emotional-Studio-sub001/api"
	"github.com/angeleo1/Emotional-Studio-sub001/config"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/bootstrap"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/cache"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/kafka"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/repository"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/availability"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/payment"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	flags := cache.NewRuntimeFlags(cfg.Redis, cfg.Booking.DisabledDefault)
	defer flags.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	reservationRepo := repository.NewReservationRepository(pool)
	availabilityService := availability.NewAvailabilityService(reservationRepo, flags)
	reservationService := reservation.NewReservationService(
		reservationRepo,
		flags,
		producer,
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	processor := payment.NewHTTPProcessorClient(cfg.Payment)
	paymentService := payment.NewPaymentService(
		processor,
		reservationService,
		flags,
		producer,
		cfg.Payment.WebhookSecret,
		payment.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	handlers := bootstrap.Handlers{
		Availability: api.NewAvailabilityHandler(availabilityService),
		Reservations: api.NewReservationHandler(reservationService, cfg.Booking.AdminToken),
		Checkout:     api.NewCheckoutHandler(paymentService),
		Webhook:      api.NewWebhookHandler(paymentService),
		Admin:        api.NewAdminHandler(reservationService, flags, cfg.Booking.AdminToken),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
