package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/api"
	"github.com/angeleo1/Emotional-Studio-sub001/config"
	"github.com/gin-gonic/gin"
)

// Handlers collects the registered API surfaces the server exposes.
type Handlers struct {
	Availability *api.AvailabilityHandler
	Reservations *api.ReservationHandler
	Checkout     *api.CheckoutHandler
	Webhook      *api.WebhookHandler
	Admin        *api.AdminHandler
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, handlers Handlers) error {
	router := gin.New()
	router.Use(gin.Recovery(), gin.Logger())

	v1 := router.Group("/api/v1")
	handlers.Availability.Register(v1)
	handlers.Reservations.Register(v1)
	handlers.Checkout.Register(v1)
	handlers.Webhook.Register(v1)
	handlers.Admin.Register(v1)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
