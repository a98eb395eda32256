package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/tgchat/internal/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeNotAuthenticated, http.StatusUnauthorized},
		{apperrors.ErrCodeTokenExpired, http.StatusUnauthorized},
		{apperrors.ErrCodeValidation, http.StatusBadRequest},
		{apperrors.ErrCodeNotFound, http.StatusNotFound},
		{apperrors.ErrCodeSendCode, http.StatusUnprocessableEntity},
		{apperrors.ErrCodeSignIn, http.StatusUnprocessableEntity},
		{apperrors.ErrCodeProtocol, http.StatusBadGateway},
		{apperrors.ErrCodeTwoFactorRequired, http.StatusOK},
		{apperrors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func TestWriteActionError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeActionError(rec, apperrors.Wrap(errors.New("PHONE_CODE_INVALID"), apperrors.ErrCodeSignIn, "failed to sign in"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var got ActionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, ActionResult{Error: "failed to sign in", Code: "sign_in_failed"}, got)
}

func TestWriteDataError_UncodedIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDataError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"boom","code":"internal"}`, rec.Body.String())
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"phone":"1","extra":true}`))
	rec := httptest.NewRecorder()

	var dst loginRequest
	assert.False(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_json"`)
}
