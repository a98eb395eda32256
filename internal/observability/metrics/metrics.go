// Package metrics exposes Prometheus instrumentation for login phases and
// protocol calls.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/target/tgchat/internal/observability/errors"
	"github.com/target/tgchat/internal/ports"
)

const namespace = "tgchat"

// Result label values.
const (
	ResultSuccess   = "success"
	ResultError     = "error"
	ResultTwoFactor = "needs_2fa"
)

// Login phase label values.
const (
	PhaseStartLogin = "start_login"
	PhaseVerifyCode = "verify_code"
	PhaseVerify2FA  = "verify_2fa"
	PhaseLogout     = "logout"
)

// Recorder owns the service collectors. A nil *Recorder records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	authPhases     *prometheus.CounterVec
	protocolCalls  *prometheus.CounterVec
	protocolErrors *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
	sessions       prometheus.Gauge
}

// NewRecorder registers collectors on reg. Passing nil uses a private registry.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Recorder{
		gatherer: reg,
		authPhases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_phase_total",
			Help:      "Login phases by outcome.",
		}, []string{"phase", "result"}),
		protocolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_calls_total",
			Help:      "Calls to the messaging service by operation and outcome.",
		}, []string{"op", "result"}),
		protocolErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Failed messaging service calls by error class.",
		}, []string{"op", "error_class"}),
		callDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "protocol_call_duration_seconds",
			Help:      "Latency of messaging service calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_stored",
			Help:      "Session records currently held by the in-memory store.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// AuthPhase counts one login phase outcome.
func (r *Recorder) AuthPhase(phase string, err error) {
	if r == nil {
		return
	}
	result := ResultSuccess
	switch {
	case errors.Is(err, ports.ErrPasswordRequired):
		result = ResultTwoFactor
	case err != nil:
		result = ResultError
	}
	r.authPhases.WithLabelValues(phase, result).Inc()
}

// ProtocolCall records one messaging service call.
func (r *Recorder) ProtocolCall(op string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil && !errors.Is(err, ports.ErrPasswordRequired) {
		result = ResultError
		r.protocolErrors.WithLabelValues(op, obserrors.Classify(err)).Inc()
	}
	r.protocolCalls.WithLabelValues(op, result).Inc()
	r.callDuration.WithLabelValues(op).Observe(d.Seconds())
}

// SetSessions updates the stored-sessions gauge.
func (r *Recorder) SetSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}
