package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tvbridge_build_info",
			Help: "Build information",
		},
		[]string{"version", "sha", "date"},
	)

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvbridge_commands_total",
			Help: "Commands sent to the tv",
		},
		[]string{"uri", "outcome"},
	)

	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tvbridge_command_duration_seconds",
			Help:    "Command round-trip duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"uri"},
	)

	reconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tvbridge_reconnects_total",
			Help: "Connection loss events followed by a redial",
		},
	)

	connectionState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tvbridge_connection_state",
			Help: "Session state: 0 disconnected, 1 connected, 2 registered",
		},
	)

	watchdogCorrections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tvbridge_watchdog_corrections_total",
			Help: "Sound output corrections issued by the watchdog",
		},
	)
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, commandsTotal, commandDuration, reconnectsTotal, connectionState, watchdogCorrections)
}

// SetBuildInfo sets the build info metric.
func SetBuildInfo(version, sha, date string) {
	buildInfo.WithLabelValues(version, sha, date).Set(1)
}

// ObserveRequest records one command round trip.
func ObserveRequest(uri string, success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	commandsTotal.WithLabelValues(uri, outcome).Inc()
	commandDuration.WithLabelValues(uri).Observe(d.Seconds())
}

// IncReconnects counts a connection loss.
func IncReconnects() { reconnectsTotal.Inc() }

// SetConnectionState publishes the session state.
func SetConnectionState(s int) { connectionState.Set(float64(s)) }

// IncWatchdogCorrection counts a sound output correction.
func IncWatchdogCorrection() { watchdogCorrections.Inc() }
