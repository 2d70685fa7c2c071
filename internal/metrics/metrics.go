// Package metrics holds the Prometheus collectors the server exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics is the set of collectors, registered on its own registry so tests can
// create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	ScoreWrites       prometheus.Counter
	LeaderboardBuilds prometheus.Counter
	BuildDuration     prometheus.Histogram
	PhotoUploads      *prometheus.CounterVec
	LiveViewers       prometheus.Gauge
}

// New creates and registers every collector, plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ScoreWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golfclub",
			Name:      "score_cells_written_total",
			Help:      "Score cells saved from the score-entry grid.",
		}),
		LeaderboardBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golfclub",
			Name:      "leaderboard_builds_total",
			Help:      "Leaderboards computed, for pages and live pushes.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "golfclub",
			Name:      "leaderboard_build_seconds",
			Help:      "Time spent loading and scoring one game.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		PhotoUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golfclub",
			Name:      "photo_uploads_total",
			Help:      "Photo upload attempts by outcome.",
		}, []string{"outcome"}),
		LiveViewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "golfclub",
			Name:      "live_viewers",
			Help:      "Open live-leaderboard websocket connections.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ScoreWrites,
		m.LeaderboardBuilds,
		m.BuildDuration,
		m.PhotoUploads,
		m.LiveViewers,
	)
	return m
}
