package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Access decision outcomes, used as the outcome label value.
const (
	OutcomeAllowed         = "allowed"
	OutcomeNoConsent       = "denied_no_consent"
	OutcomeIntegrity       = "denied_integrity_violation"
	OutcomeUnauthenticated = "denied_unauthenticated"
)

// Ledger call sites, used as the path label value on failure counters.
const (
	PathRecord  = "record"
	PathConsent = "consent"
	PathAudit   = "audit"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AccessDecisions     *prometheus.CounterVec
	IntegrityViolations prometheus.Counter
	LedgerFailures      *prometheus.CounterVec
	ConsentsGranted     prometheus.Counter
	ConsentsRevoked     prometheus.Counter
	RecordsNotarized    prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New creates all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg; tests pass a fresh registry so
// repeated construction never panics on duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccessDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medblock_access_decisions_total",
			Help: "Access gate decisions by outcome",
		}, []string{"outcome"}),
		IntegrityViolations: factory.NewCounter(prometheus.CounterOpts{
			Name: "medblock_integrity_violations_total",
			Help: "Detected content hash mismatches; any increase needs investigation",
		}),
		LedgerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medblock_ledger_failures_total",
			Help: "Failed ledger notarizations by call path",
		}, []string{"path"}),
		ConsentsGranted: factory.NewCounter(prometheus.CounterOpts{
			Name: "medblock_consents_granted_total",
			Help: "Consent grants activated",
		}),
		ConsentsRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "medblock_consents_revoked_total",
			Help: "Consent grants revoked",
		}),
		RecordsNotarized: factory.NewCounter(prometheus.CounterOpts{
			Name: "medblock_records_notarized_total",
			Help: "Records created and anchored on the ledger",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medblock_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// RecordAccessDecision increments the decision counter and, for integrity
// denials, the dedicated violation counter feeding the alerting rule.
func (m *Metrics) RecordAccessDecision(outcome string) {
	m.AccessDecisions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeIntegrity {
		m.IntegrityViolations.Inc()
	}
}

// RecordLedgerFailure increments the per-path ledger failure counter.
func (m *Metrics) RecordLedgerFailure(path string) {
	m.LedgerFailures.WithLabelValues(path).Inc()
}
