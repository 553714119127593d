package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventCheckoutCompleted is sent once a checkout session is paid.
const EventCheckoutCompleted = "checkout.session.completed"

// SignatureTolerance is the accepted age of a webhook signature.
const SignatureTolerance = 5 * time.Minute

var ErrBadSignature = errors.New("webhook signature verification failed")

// Event is a Stripe webhook event.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Session decodes the checkout session carried by the event.
func (e *Event) Session() (*Session, error) {
	var s Session
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, fmt.Errorf("decode event session: %w", err)
	}
	return &s, nil
}

// ParseWebhook verifies the Stripe-Signature header of a webhook payload
// and decodes the event.
func (c *Client) ParseWebhook(payload []byte, header string) (*Event, error) {
	if c.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	if err := verifySignature(payload, header, c.webhookSecret, c.now()); err != nil {
		return nil, err
	}

	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &e, nil
}

// Sign returns a Stripe-Signature header value for payload. Used to build
// test events.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + computeSignature(ts, payload, secret)
}

func verifySignature(payload []byte, header, secret string, now time.Time) error {
	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return fmt.Errorf("%w: malformed header", ErrBadSignature)
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrBadSignature)
	}
	if age := now.Sub(time.Unix(unix, 0)); age > SignatureTolerance || age < -SignatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	want := computeSignature(ts, payload, secret)
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(want)) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching signature", ErrBadSignature)
}

func computeSignature(ts string, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
