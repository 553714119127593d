// Package breaker builds the circuit breakers guarding outbound calls to
// third-party services (SMTP, Stripe).
package breaker

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Settings tune a breaker. Zero values take the defaults.
type Settings struct {
	// Threshold is the minimum number of requests in an interval before the
	// failure ratio can trip the breaker.
	Threshold uint32
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
}

const (
	defaultThreshold = 5
	defaultTimeout   = 30 * time.Second
	failureRatio     = 0.5
)

// New creates a breaker that opens once half of at least Threshold calls
// fail, and logs every state change.
func New(name string, s Settings, log *zap.Logger) *gobreaker.CircuitBreaker {
	if s.Threshold == 0 {
		s.Threshold = defaultThreshold
	}
	if s.Timeout == 0 {
		s.Timeout = defaultTimeout
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    s.Timeout,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.Threshold && ratio >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
