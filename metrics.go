package sympa

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a Client.
type Metrics struct {
	Calls       *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	SchemaDrift *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sympa_soap_calls_total",
			Help: "Total number of calls to the Sympa SOAP service",
		}, []string{"operation", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sympa_soap_call_duration_seconds",
			Help:    "Duration of calls to the Sympa SOAP service",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		SchemaDrift: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sympa_schema_drift_total",
			Help: "Total number of unexpected fields seen in Sympa responses",
		}, []string{"operation", "field"}),
	}
}

func (m *Metrics) observeCall(operation string, start time.Time, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	var fault *Fault
	switch {
	case errors.As(err, &fault):
		outcome = "fault"
	case err != nil:
		outcome = "error"
	}

	m.Calls.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) incSchemaDrift(operation, field string) {
	if m == nil {
		return
	}
	m.SchemaDrift.WithLabelValues(operation, field).Inc()
}
