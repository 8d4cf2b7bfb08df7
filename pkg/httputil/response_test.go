package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestWriteErrorValidationFailureKeepsFieldDetail(t *testing.T) {
	type form struct {
		Email   string `json:"email" validate:"required,email"`
		Country string `json:"country" validate:"required"`
	}

	err := validator.Validate(form{Email: "not-an-email"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout/submit", nil)
	WriteError(rec, req, err, testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Fields, "Email")
	assert.Contains(t, body.Fields, "Country")
}

func TestWriteErrorSessionExpiredCarriesLoginRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	WriteError(rec, req, apperrors.SessionExpired(""), testLogger())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "SESSION_EXPIRED", body.Code)
	assert.Equal(t, "/login", body.Redirect)
}

func TestWriteErrorUnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rec, req, assert.AnError, testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
}

func TestParseIDRejectsNonPositive(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", ""} {
		rec := httptest.NewRecorder()
		_, ok := ParseID(rec, raw)
		assert.False(t, ok, "param %q", raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "41")
	assert.True(t, ok)
	assert.Equal(t, 41, id)
}
