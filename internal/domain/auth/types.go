package auth

// Package auth contains domain-level types for login flows and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// SessionCookieName is the browser cookie that carries the persistent session token.
const SessionCookieName = "session_token"

// DefaultTempTTL bounds how long an in-progress login may sit between phases.
const DefaultTempTTL = 5 * time.Minute

// Record is the server-side entry kept for a token.
// Payload is opaque serialized protocol-client state; ExpiresAt is zero when the
// record never expires.
type Record struct {
	Token     string    `json:"token"`
	Payload   string    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// HasExpiry reports whether the record carries an absolute expiry.
func (r Record) HasExpiry() bool { return !r.ExpiresAt.IsZero() }

// Live reports whether the record may be served at the given instant.
// Records without an expiry are always live.
func (r Record) Live(now time.Time) bool {
	return !r.HasExpiry() || r.ExpiresAt.After(now)
}

// NewRecord builds a record for token, computing the absolute expiry from ttl.
// A non-positive ttl yields a record without expiry.
func NewRecord(token, payload string, ttl time.Duration, now time.Time) Record {
	rec := Record{Token: token, Payload: payload}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return rec
}

// FlowStep is the client-side position in the login flow.
// It is never persisted; browsers carry it in form fields.
type FlowStep string

const (
	StepPhone     FlowStep = "phone"
	StepCode      FlowStep = "code"
	StepTwoFactor FlowStep = "two_factor"
)

// Valid reports whether s is a known step.
func (s FlowStep) Valid() bool {
	switch s {
	case StepPhone, StepCode, StepTwoFactor:
		return true
	default:
		return false
	}
}

// FlowState is what the browser holds between login phases.
type FlowState struct {
	Step      FlowStep
	Phone     string
	TempToken string
}

// Next returns the state after a successful phone or code submission.
// needsPassword only matters for the code step.
func (f FlowState) Next(tempToken string, needsPassword bool) FlowState {
	switch f.Step {
	case StepPhone:
		return FlowState{Step: StepCode, Phone: f.Phone, TempToken: tempToken}
	case StepCode:
		if needsPassword {
			return FlowState{Step: StepTwoFactor, Phone: f.Phone, TempToken: f.TempToken}
		}
	}
	return f
}
