package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for BoardMetrics.ObserveRequest.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// BoardMetrics instruments the activity board.
type BoardMetrics struct {
	requests   CounterVec
	activities Gauge
	spotsLeft  GaugeVec
	staleLoads Counter
}

// NewBoardMetrics registers the board metrics with reg.
func NewBoardMetrics(reg Registry) (*BoardMetrics, error) {
	requests, err := reg.NewCounterVec(prometheus.CounterOpts{
		Name: "requests_total",
		Help: "Requests to the activities API by operation and outcome.",
	}, []string{"operation", "outcome"})
	if err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}

	activities, err := reg.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_activities",
		Help: "Number of activities in the most recently applied catalog.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating activities gauge: %w", err)
	}

	spotsLeft, err := reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spots_left",
		Help: "Open spots per activity in the most recently applied catalog.",
	}, []string{"activity"})
	if err != nil {
		return nil, fmt.Errorf("creating spots left gauge: %w", err)
	}

	staleLoads, err := reg.NewCounter(prometheus.CounterOpts{
		Name: "stale_loads_total",
		Help: "Catalog loads discarded because a newer load had been issued.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating stale loads counter: %w", err)
	}

	return &BoardMetrics{
		requests:   requests,
		activities: activities,
		spotsLeft:  spotsLeft,
		staleLoads: staleLoads,
	}, nil
}

// ObserveRequest counts one API request.
func (m *BoardMetrics) ObserveRequest(operation, outcome string) {
	m.requests.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}

// SetCatalogSize records the size of the applied catalog.
func (m *BoardMetrics) SetCatalogSize(n int) {
	m.activities.Set(float64(n))
}

// SetSpotsLeft replaces the per-activity open spots with spots. Activities missing
// from spots are no longer reported.
func (m *BoardMetrics) SetSpotsLeft(spots map[string]int) {
	m.spotsLeft.Reset()
	for activity, n := range spots {
		m.spotsLeft.With(prometheus.Labels{"activity": activity}).Set(float64(n))
	}
}

// StaleLoad counts one discarded catalog load.
func (m *BoardMetrics) StaleLoad() {
	m.staleLoads.Inc()
}
