package dto

// HealthResponse is returned by the probes. Details maps each checked
// dependency to "ok" or its error.
type HealthResponse struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}
