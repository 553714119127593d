package dto

// SuccessResponse is the envelope of successful API responses
type SuccessResponse struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data"`
}

// Success wraps data in the standard envelope
func Success(data any) SuccessResponse {
	return SuccessResponse{Status: "success", Data: data}
}

// SuccessList wraps a list and its length in the standard envelope
func SuccessList(n int, data any) SuccessResponse {
	return SuccessResponse{Status: "success", Results: &n, Data: data}
}
