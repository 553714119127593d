package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   dto.ErrorResponse
	}{
		{
			name:       "operational client error",
			err:        apperror.NotFound("No tour found with that ID"),
			wantStatus: http.StatusNotFound,
			wantBody:   dto.ErrorResponse{Status: "fail", Message: "No tour found with that ID"},
		},
		{
			name:       "wrapped operational error",
			err:        errors.Join(errors.New("ctx"), apperror.Forbidden("You do not have permission to perform this action")),
			wantStatus: http.StatusForbidden,
			wantBody:   dto.ErrorResponse{Status: "fail", Message: "You do not have permission to perform this action"},
		},
		{
			name:       "operational server error",
			err:        apperror.Internal(errors.New("smtp"), "There was an error sending the email. Try again later!"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   dto.ErrorResponse{Status: "error", Message: "There was an error sending the email. Try again later!"},
		},
		{
			name:       "unknown error",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   dto.ErrorResponse{Status: "error", Message: GenericErrorMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			WriteError(rec, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var got dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jonas"}`))
	r.Header.Set("Content-Type", "application/json")
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Jonas", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.True(t, apperror.Is(DecodeJSON(r, &dst), apperror.KindValidation))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.True(t, apperror.Is(DecodeJSON(r, &dst), apperror.KindValidation))

	rec := httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 100)+`"}`))
	r.Body = http.MaxBytesReader(rec, r.Body, 10)
	err := DecodeJSON(r, &dst)
	e, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Request body too large", e.Message)
}

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteList(rec, 2, map[string]any{"data": []string{"a", "b"}})
	assert.JSONEq(t, `{"status":"success","results":2,"data":{"data":["a","b"]}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, map[string]any{"data": "x"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":{"data":"x"}}`, rec.Body.String())
}
