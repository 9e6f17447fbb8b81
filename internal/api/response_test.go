package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymaccess/internal/apperror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing field", apperror.MissingField("op", "subscription_id"), http.StatusBadRequest},
		{"business rule", apperror.BusinessRule("op", "weekly-quota-exceeded", "limit"), http.StatusBadRequest},
		{"not found", apperror.NotFound("op", "check-in"), http.StatusNotFound},
		{"validation", apperror.Validation("op"), http.StatusUnprocessableEntity},
		{"unauthorized", apperror.Unauthorized("op", "no"), http.StatusUnauthorized},
		{"persistence", apperror.Persistence("op", "check-in creation failed", errors.New("pq: boom")), http.StatusInternalServerError},
		{"foreign", errors.New("pq: boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestWriteErrorCarriesRule(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperror.BusinessRule("op", "duplicate-daily-checkin", "client already checked in today"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "duplicate-daily-checkin", resp.Rule)
	assert.Equal(t, "client already checked in today", resp.Message)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		ID int64 `json:"id"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id": 5}`))
	require.NoError(t, DecodeJSON(req, "op", &v))
	assert.Equal(t, int64(5), v.ID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id": "x"}`))
	err := DecodeJSON(req, "op", &v)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, DecodeJSON(req, "op", &v), apperror.ErrValidation)
}
