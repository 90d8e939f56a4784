package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the registry.
type Metrics struct {
	RegistrationsFree prometheus.Counter
	RegistrationsPaid prometheus.Counter
	Transfers         prometheus.Counter
	ProfileUpdates    prometheus.Counter
	Verifications     prometheus.Counter
	Withdrawals       prometheus.Counter
	RegisterDuration  prometheus.Histogram
}

// New creates and registers all registry metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsFree: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_registrations_free_total",
			Help: "Registrations settled against the free-registration quota",
		}),
		RegistrationsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_registrations_paid_total",
			Help: "Registrations settled with a fee pull",
		}),
		Transfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_transfers_total",
			Help: "Record ownership transfers",
		}),
		ProfileUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_profile_updates_total",
			Help: "Profile replacements",
		}),
		Verifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_account_verifications_total",
			Help: "Accounts added to the verified set",
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_withdrawals_total",
			Help: "Treasury withdrawals",
		}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "namereg_register_duration_seconds",
			Help:    "Latency of registration operations",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveRegister records one registration with its settlement path.
func (m *Metrics) ObserveRegister(paid bool, start time.Time) {
	if m == nil {
		return
	}
	if paid {
		m.RegistrationsPaid.Inc()
	} else {
		m.RegistrationsFree.Inc()
	}
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
