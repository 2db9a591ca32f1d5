package grpcarchive

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc/codes"
)

// Metrics counts archive RPCs by method and status code.
type Metrics struct {
	requests *prometheus.CounterVec
	stored   prometheus.Counter
}

// NewMetrics registers the archive collectors on reg. A nil reg yields
// working but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subnetconv",
			Subsystem: "archive",
			Name:      "requests_total",
			Help:      "Archive RPCs handled, by method and gRPC status code.",
		}, []string{"method", "code"}),
		stored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "subnetconv",
			Subsystem: "archive",
			Name:      "messages_stored_total",
			Help:      "Conversion messages newly stored by Put; idempotent re-puts are not counted.",
		}),
	}
}

func (m *Metrics) observe(method string, code codes.Code) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code.String()).Inc()
}

func (m *Metrics) storedOne() {
	if m == nil {
		return
	}
	m.stored.Inc()
}
