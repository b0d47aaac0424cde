package api

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	auditsTotal   *prometheus.CounterVec
	auditDuration *prometheus.HistogramVec
	rateLimited   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	const labelStatus = "status"

	m := &metrics{
		auditsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auditkit_audits_total",
			Help: "Number of audit requests by outcome.",
		}, []string{labelStatus}),
		auditDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auditkit_audit_duration_seconds",
			Help:    "End to end audit duration including the page fetch, by outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{labelStatus}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auditkit_rate_limited_total",
			Help: "Number of requests rejected by the per-client rate limit.",
		}),
	}

	reg.MustRegister(m.auditsTotal, m.auditDuration, m.rateLimited)
	return m
}
