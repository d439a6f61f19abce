package backend

import "github.com/prometheus/client_golang/prometheus"

var (
	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests sent to the clinic backend by method and status",
		},
		[]string{"method", "status"},
	)

	tenantMismatchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_mismatch_total",
			Help: "Sessions terminated because the backend rejected them for another clinic",
		},
	)
)

func init() {
	prometheus.MustRegister(backendRequestsTotal)
	prometheus.MustRegister(tenantMismatchTotal)
}
