// Package metrics exposes Prometheus instrumentation for ranking runs,
// data fetches and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors registered for the service.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	TeamsRanked   prometheus.Gauge
	PlayersRanked prometheus.Gauge
	LeagueHealth  prometheus.Gauge
	FetchesTotal  *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cpr_ranking_runs_total",
			Help: "Ranking runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpr_ranking_run_duration_seconds",
			Help:    "Ranking run duration by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		TeamsRanked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cpr_teams_ranked",
			Help: "Teams ranked in the most recent run.",
		}),
		PlayersRanked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cpr_players_ranked",
			Help: "Players ranked in the most recent run.",
		}),
		LeagueHealth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cpr_league_health",
			Help: "League competitive health from the most recent run (0-1).",
		}),
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cpr_data_fetches_total",
			Help: "Upstream data fetches by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cpr_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpr_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// NewDefault registers on the global default registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// RecordFetch counts one upstream data fetch.
func (m *Metrics) RecordFetch(endpoint, outcome string) {
	m.FetchesTotal.WithLabelValues(endpoint, outcome).Inc()
}
