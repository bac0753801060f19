// Package metrics holds the prometheus collectors of the route checker
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routeChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farewatch",
		Name:      "route_checks_total",
		Help:      "Route checks by rate analysis status, classification and whether anomaly rows matched.",
	}, []string{"rate_status", "classification", "flagged"})

	alternatives = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farewatch",
		Name:      "alternative_suggestions_total",
		Help:      "Alternative pickup searches by outcome.",
	}, []string{"status"})

	skippedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farewatch",
		Name:      "dataset_skipped_rows_total",
		Help:      "Dataset rows left out at load time because they were malformed.",
	}, []string{"dataset"})
)

// ObserveCheck counts one route check
func ObserveCheck(rateStatus, classification string, flagged bool) {
	routeChecks.WithLabelValues(rateStatus, classification, strconv.FormatBool(flagged)).Inc()
}

// ObserveAlternative counts one alternative pickup search
func ObserveAlternative(status string) {
	alternatives.WithLabelValues(status).Inc()
}

// ObserveSkippedRows counts rows of a dataset skipped at load
func ObserveSkippedRows(dataset string, n int) {
	if n <= 0 {
		return
	}
	skippedRows.WithLabelValues(dataset).Add(float64(n))
}
