package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartnotes_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	noteOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartnotes_note_operations_total",
		Help: "Number of note operations grouped by operation and status.",
	}, []string{"op", "status"})

	analysisCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartnotes_analysis_calls_total",
		Help: "Calls to the text-analysis capability grouped by kind and status.",
	}, []string{"kind", "status"})

	logoutEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartnotes_logout_events_total",
		Help: "Number of logout attempts grouped by status.",
	}, []string{"status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartnotes_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncNoteOp increments the note operation counter.
func IncNoteOp(op, status string) {
	noteOps.WithLabelValues(op, status).Inc()
}

// IncAnalysis increments the analysis call counter.
func IncAnalysis(kind, status string) {
	analysisCalls.WithLabelValues(kind, status).Inc()
}

// IncLogout increments the logout counter.
func IncLogout(status string) {
	logoutEvents.WithLabelValues(status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
