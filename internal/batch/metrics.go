package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of one batch run. Each run owns its registry so the textfile only
// carries this job's series.
type Metrics struct {
	Registry *prometheus.Registry

	files       *prometheus.CounterVec
	records     *prometheus.GaugeVec
	shadowed    *prometheus.CounterVec
	oracleFails *prometheus.CounterVec
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holiday_sync_files_total",
				Help: "Country files processed, by result (updated, created, unchanged, skipped, failed).",
			},
			[]string{"result"},
		),
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "holiday_sync_records",
				Help: "Holiday records written per country.",
			},
			[]string{"country"},
		),
		shadowed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holiday_sync_shadowed_tags_total",
				Help: "Subdivision tags dropped because a nationwide holiday has the same name and date.",
			},
			[]string{"country"},
		),
		oracleFails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holiday_sync_oracle_failures_total",
				Help: "Oracle queries that failed and were treated as empty.",
			},
			[]string{"country"},
		),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holiday_sync_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holiday_sync_last_success_timestamp_seconds",
			Help: "Unix time the last run completed.",
		}),
	}
	m.Registry.MustRegister(m.files, m.records, m.shadowed, m.oracleFails, m.duration, m.lastSuccess)
	return m
}

// WriteTextfile writes the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
