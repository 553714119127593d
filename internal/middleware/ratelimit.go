package middleware

import (
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/ratelimit"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

const MsgTooManyRequests = "Too many requests from this IP, please try again in an hour!"

// RateLimit limits requests per client IP as resolved by ips. When the
// limiter itself fails the request is let through.
func RateLimit(l ratelimit.Limiter, ips *IPResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ips.ClientIP(r)
			res, err := l.Allow(r.Context(), ip)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("ip", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.Itoa(seconds(res.ResetAfter.Seconds())))
			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(seconds(res.RetryAfter.Seconds())))
				utils.WriteError(w, log, apperror.TooManyRequests(MsgTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func seconds(s float64) int {
	return int(math.Ceil(s))
}
