// Package metrics keeps run counters in a private registry and writes them
// out in node-exporter textfile format after each batch run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pable/go-bgg-stats/internal/model"
)

// Registry holds every bggstats collector.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	PlaysProcessed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bggstats",
		Name:      "plays_processed_total",
		Help:      "Play entries fed through the aggregation engine",
	}, []string{"user"})

	MalformedPlays = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bggstats",
		Name:      "malformed_plays",
		Help:      "Malformed plays found in the last run",
	}, []string{"user"})

	Players = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bggstats",
		Name:      "players",
		Help:      "Distinct players in the last run",
	}, []string{"user"})

	LastRunTimestamp = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bggstats",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful stats run",
	}, []string{"user"})

	AggregationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bggstats",
		Name:      "aggregation_duration_seconds",
		Help:      "Wall time of one aggregation run",
		Buckets:   prometheus.DefBuckets,
	})

	BGGRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bggstats",
		Name:      "bgg_requests_total",
		Help:      "BGG API attempts by endpoint and outcome",
	}, []string{"endpoint", "outcome"}) // outcome: "ok", "retry", "error"

	PlaysFetched = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bggstats",
		Name:      "plays_fetched_total",
		Help:      "Plays downloaded from BGG",
	}, []string{"user"})
)

// ObserveRun records the outcome of one aggregation run.
func ObserveRun(user string, plays int, stats *model.Stats, elapsed time.Duration, at time.Time) {
	PlaysProcessed.WithLabelValues(user).Add(float64(plays))
	MalformedPlays.WithLabelValues(user).Set(float64(len(stats.MalformedPlays)))
	Players.WithLabelValues(user).Set(float64(len(stats.PlayerStats)))
	LastRunTimestamp.WithLabelValues(user).Set(float64(at.Unix()))
	AggregationDuration.Observe(elapsed.Seconds())
}

// ObserveRequest matches bgg.RequestHook.
func ObserveRequest(endpoint, outcome string) {
	BGGRequests.WithLabelValues(endpoint, outcome).Inc()
}

// WriteTextfile writes the registry to path. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
