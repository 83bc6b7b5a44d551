package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SweepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ytmail_sweeps_total",
		Help: "Completed sweeps over the channel list",
	})
	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ytmail_sweep_duration_seconds",
		Help:    "Time spent on one sweep",
		Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})
	LastSweepTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ytmail_last_sweep_timestamp_seconds",
		Help: "Unix time the last sweep finished",
	})
	ChannelChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ytmail_channel_checks_total",
		Help: "Per-channel checks by outcome",
	}, []string{"outcome"})
)

func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SweepsTotal,
		SweepDuration,
		LastSweepTimestamp,
		ChannelChecks,
	)
}

func ObserveSweep(duration time.Duration, finishedAt time.Time) {
	SweepsTotal.Inc()
	SweepDuration.Observe(duration.Seconds())
	LastSweepTimestamp.Set(float64(finishedAt.Unix()))
}

func ObserveCheck(outcome string) {
	ChannelChecks.WithLabelValues(outcome).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
