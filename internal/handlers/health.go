package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

const readinessTimeout = 3 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type check struct {
	name string
	p    Pinger
}

// HealthHandler serves the probes. Readiness pings the store and every
// dependency added with Check.
type HealthHandler struct {
	checks []check
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{checks: []check{{name: "db", p: db}}}
}

// Check adds a dependency to the readiness probe.
func (h *HealthHandler) Check(name string, p Pinger) *HealthHandler {
	h.checks = append(h.checks, check{name: name, p: p})
	return h
}

// HealthCheck answers without touching any dependency
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck pings every dependency
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	details := make(map[string]string, len(h.checks))
	status, code := "ready", http.StatusOK
	for _, c := range h.checks {
		if err := c.p.Ping(ctx); err != nil {
			details[c.name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		details[c.name] = "ok"
	}

	utils.WriteJSONResponse(w, code, dto.HealthResponse{Status: status, Details: details})
}
