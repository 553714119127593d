// Package payment creates Stripe Checkout sessions and verifies Stripe
// webhooks over the Stripe REST API.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/breaker"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
)

// ErrNotConfigured is returned when no Stripe secret key is set.
var ErrNotConfigured = errors.New("stripe is not configured")

const defaultAPIBase = "https://api.stripe.com"

// Client talks to Stripe.
type Client struct {
	secretKey     string
	webhookSecret string
	apiBase       string
	currency      string
	http          *http.Client
	cb            *gobreaker.CircuitBreaker
	now           func() time.Time
}

// New creates a Stripe client from configuration.
func New(cfg config.StripeConfig, log *zap.Logger) *Client {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = defaultAPIBase
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &Client{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		apiBase:       base,
		currency:      currency,
		http:          &http.Client{Timeout: 15 * time.Second},
		cb:            breaker.New("stripe", breaker.Settings{}, log),
		now:           time.Now,
	}
}

// Configured reports whether checkout sessions can be created.
func (c *Client) Configured() bool { return c.secretKey != "" }

// CheckoutParams describes a one item checkout.
type CheckoutParams struct {
	SuccessURL        string
	CancelURL         string
	CustomerEmail     string
	ClientReferenceID string
	Name              string
	Description       string
	Images            []string
	// Amount is the unit price in the smallest currency unit (cents).
	Amount int64
}

// Session is a Stripe Checkout Session.
type Session struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email"`
	AmountTotal       int64  `json:"amount_total"`
	PaymentStatus     string `json:"payment_status"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession creates a card payment session for one item.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*Session, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("customer_email", p.CustomerEmail)
	form.Set("client_reference_id", p.ClientReferenceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", p.Name)
	if p.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", p.Description)
	}
	for i, img := range p.Images {
		form.Set(fmt.Sprintf("line_items[0][price_data][product_data][images][%d]", i), img)
	}

	res, err := c.cb.Execute(func() (any, error) {
		return c.post(ctx, "/v1/checkout/sessions", form)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Session), nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read stripe response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var se stripeError
		if json.Unmarshal(body, &se) == nil && se.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s (status %d)", se.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode stripe session: %w", err)
	}
	return &s, nil
}
