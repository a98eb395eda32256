package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/target/tgchat/internal/errors"
)

// maxBodyBytes bounds JSON request bodies. Broadcasts carry up to 100
// usernames plus 4000 runes of text, well under this.
const maxBodyBytes = 64 << 10

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams. The body uses the
// same {error, code} keys as the action and data envelopes.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, DataResult{Error: apperrors.Message(p.Err), Code: p.ErrCode})
}

// ActionResult is the envelope for login-flow actions.
type ActionResult struct {
	Success        bool   `json:"success"`
	TempToken      string `json:"temp_token,omitempty"`
	NeedsTwoFactor bool   `json:"needs_2fa,omitempty"`
	Error          string `json:"error,omitempty"`
	Code           string `json:"code,omitempty"`
}

// DataResult is the envelope for data actions.
type DataResult struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// writeActionError renders err as a failed ActionResult.
func writeActionError(w http.ResponseWriter, err error) {
	code, status := errorCode(err)
	WriteJSON(w, status, ActionResult{Error: apperrors.Message(err), Code: code})
}

// writeDataError renders err as a DataResult without data.
func writeDataError(w http.ResponseWriter, err error) {
	code, status := errorCode(err)
	WriteJSON(w, status, DataResult{Error: apperrors.Message(err), Code: code})
}

// errorCode maps an application error to its wire code and HTTP status.
// Errors without a code are internal.
func errorCode(err error) (string, int) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	return string(code), StatusFor(code)
}

// StatusFor derives the HTTP status for an error code.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotAuthenticated, apperrors.ErrCodeTokenExpired:
		return http.StatusUnauthorized
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeSendCode, apperrors.ErrCodeSignIn:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeProtocol:
		return http.StatusBadGateway
	case apperrors.ErrCodeTwoFactorRequired:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
