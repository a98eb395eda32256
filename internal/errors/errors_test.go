package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeTokenExpired,
				Message: "invalid or expired token",
			},
			want: "invalid or expired token",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeSendCode,
				Message: "failed to send code",
				Cause:   errors.New("PHONE_NUMBER_INVALID"),
			},
			want: "failed to send code: PHONE_NUMBER_INVALID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeProtocol,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"not authenticated", NotAuthenticated("not authenticated"), ErrCodeNotAuthenticated},
		{"token expired", TokenExpired("expired"), ErrCodeTokenExpired},
		{"two factor", TwoFactorRequired("password needed"), ErrCodeTwoFactorRequired},
		{"not found", NotFound("missing"), ErrCodeNotFound},
		{"validation", Validation("bad"), ErrCodeValidation},
		{"validationf", Validationf("bad %s", "phone"), ErrCodeValidation},
		{"internal", Internal("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("phone", "phone is required")
	if err.Field != "phone" {
		t.Errorf("ValidationField().Field = %v, want %v", err.Field, "phone")
	}
	if GetField(err) != "phone" {
		t.Errorf("GetField() = %v, want %v", GetField(err), "phone")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("FLOOD_WAIT_30")
	err := Wrap(cause, ErrCodeSendCode, "failed to send code")
	if err.Code != ErrCodeSendCode {
		t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeSendCode)
	}
	if !errors.Is(err, cause) {
		t.Error("Wrap() should preserve cause for errors.Is")
	}

	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapf(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrapf(cause, ErrCodeProtocol, "failed to %s", "get dialogs")
	if err.Message != "failed to get dialogs" {
		t.Errorf("Wrapf().Message = %v, want %v", err.Message, "failed to get dialogs")
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	base := TokenExpired("invalid or expired token")
	wrapped := fmt.Errorf("verify code: %w", base)

	if !IsTokenExpired(wrapped) {
		t.Error("IsTokenExpired should see through fmt.Errorf wrapping")
	}
	if IsSignIn(wrapped) {
		t.Error("IsSignIn should be false for token expired")
	}
	if GetCode(wrapped) != ErrCodeTokenExpired {
		t.Errorf("GetCode() = %v, want %v", GetCode(wrapped), ErrCodeTokenExpired)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not authenticated", NotAuthenticated("x"), IsNotAuthenticated},
		{"two factor", TwoFactorRequired("x"), IsTwoFactorRequired},
		{"sign in", New(ErrCodeSignIn, "x"), IsSignIn},
		{"send code", New(ErrCodeSendCode, "x"), IsSendCode},
		{"protocol", New(ErrCodeProtocol, "x"), IsProtocol},
		{"validation", Validation("x"), IsValidation},
		{"not found", NotFound("x"), IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
			if tt.check(errors.New("plain")) {
				t.Error("predicate returned true for a plain error")
			}
		})
	}
}

func TestGetCode_NonAppError(t *testing.T) {
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode() = %v, want empty", code)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(Wrap(errors.New("cause"), ErrCodeSignIn, "failed to sign in")); got != "failed to sign in" {
		t.Errorf("Message() = %q, want %q", got, "failed to sign in")
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Errorf("Message() = %q, want %q", got, "plain")
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
}
