// internal/httpserver/metrics.go
//
// Prometheus counters for game traffic, exported on /metrics.

package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	guessesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rayonlar_guesses_total",
			Help: "Guess submissions by result",
		},
		[]string{"result"}, // accepted | not_found | duplicate | forbidden | unavailable | busy | ignored
	)
	hintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rayonlar_hints_total",
			Help: "Hint requests by kind",
		},
		[]string{"kind"}, // next | all
	)
	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rayonlar_sessions_total",
			Help: "Sessions by lifecycle event",
		},
		[]string{"event"}, // created | resumed | won | lost | load_failed
	)
)

func init() {
	prometheus.MustRegister(guessesTotal)
	prometheus.MustRegister(hintsTotal)
	prometheus.MustRegister(sessionsTotal)
}
