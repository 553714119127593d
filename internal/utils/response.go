package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
)

// GenericErrorMessage is shown for errors that are not operational.
const GenericErrorMessage = "Something went very wrong!"

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes data in the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSONResponse(w, status, dto.Success(data))
}

// WriteList writes a list and its length in the success envelope.
func WriteList(w http.ResponseWriter, n int, data any) {
	WriteJSONResponse(w, http.StatusOK, dto.SuccessList(n, data))
}

// WriteNoContent answers a successful delete.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError translates err into the error payload. Operational errors show
// their message; anything else is logged and hidden behind a generic one.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	status, message := http.StatusInternalServerError, GenericErrorMessage

	if e, ok := apperror.As(err); ok {
		status, message = e.Status(), e.Message
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("message", e.Message), zap.Error(err))
		}
	} else {
		log.Error("unexpected error", zap.Error(err))
	}

	WriteJSONResponse(w, status, dto.ErrorResponse{Status: StatusText(status), Message: message})
}

// StatusText is "fail" for client errors and "error" for server errors.
func StatusText(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}
	return "error"
}

// DecodeJSON decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return apperror.Validation("Content-Type must be application/json")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperror.Validation("Request body too large").Wrap(err)
		case errors.Is(err, io.EOF):
			return apperror.Validation("Request body is empty")
		}
		return apperror.Validation("Invalid request body").Wrap(err)
	}
	return nil
}
