package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/angeleo1/Emotional-Studio-sub001/config"
	"github.com/angeleo1/Emotional-Studio-sub001/internal/domain"
)

// CheckoutSession mirrors the processor's hosted-checkout object. Metadata is
// the single source of truth for reconstructing the booking after payment.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentRef    string            `json:"payment_ref"`
	PaymentStatus string            `json:"payment_status"`
	AmountCents   int64             `json:"amount_cents"`
	Metadata      map[string]string `json:"metadata"`
}

const (
	paymentStatusPaid   = "paid"
	paymentStatusUnpaid = "unpaid"
	paymentStatusFailed = "failed"
)

type CreateSessionRequest struct {
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

// ProcessorClient is the payment processor surface the bridge depends on.
type ProcessorClient interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*CheckoutSession, error)
	Refund(ctx context.Context, paymentRef string) error
}

// HTTPProcessorClient talks to the processor's REST API with a bearer secret.
type HTTPProcessorClient struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

func NewHTTPProcessorClient(cfg config.PaymentConfig) *HTTPProcessorClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProcessorClient{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPProcessorClient) CreateSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error) {
	if req.SuccessURL == "" {
		req.SuccessURL = c.successURL
	}
	if req.CancelURL == "" {
		req.CancelURL = c.cancelURL
	}

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPProcessorClient) GetSession(ctx context.Context, id string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+id, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPProcessorClient) Refund(ctx context.Context, paymentRef string) error {
	body := map[string]string{"payment_ref": paymentRef}
	return c.do(ctx, http.MethodPost, "/v1/refunds", body, nil)
}

func (c *HTTPProcessorClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: processor call: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: processor returned %d: %s", domain.ErrUpstream, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode processor response: %v", domain.ErrUpstream, err)
	}
	return nil
}

var _ ProcessorClient = (*HTTPProcessorClient)(nil)
