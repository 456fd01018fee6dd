package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TaskProcessed  *prometheus.CounterVec
	LookupErrors   *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TaskProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "postcodes_enrichment_tasks_processed_total",
			Help: "Total number of processed enrichment tasks.",
		}, []string{"status"}),
		LookupErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "postcodes_lookup_errors_total",
			Help: "Total number of failed lookups by error kind (transport, parse, service, geocoder).",
		}, []string{"kind"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "postcodes_request_duration_seconds",
			Help:    "Duration of outbound lookups by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "postcodes_enrichment_active_workers",
			Help: "Current number of active workers processing tasks.",
		}),
	}
}
