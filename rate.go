package farewatch

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Measure is a numeric cell of the route anomaly dataset, Valid is false when the cell
// is empty or not a finite number
type Measure struct {
	Value float64
	Valid bool
}

// Measured returns a valid Measure of v
func Measured(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// mean averages the valid measures it is given
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(x Measure) {
	if x.Valid {
		m.sum += x.Value
		m.n++
	}
}

// value returns the mean, false when no valid measure was added
func (m mean) value() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.sum / float64(m.n), true
}

// RouteStat is a historical aggregate row of the route anomaly dataset
type RouteStat struct {
	RouteID             string
	PickupID            int
	DropoffID           int
	AvgFarePerMin       Measure
	FarePerMin          Measure
	TripDurationMinutes Measure
}

// ParseRouteStats converts the route anomaly table into RouteStats.
// A row whose route_id is not "<int>_<int>" is skipped, the number of skipped rows is
// returned alongside. Empty or non numeric rate cells leave the row in with an invalid Measure.
func ParseRouteStats(t Table) ([]RouteStat, int, error) {
	idx, err := t.indexes("route anomaly", colRouteID, colAvgFarePerMin, colFarePerMin, colTripDuration)
	if err != nil {
		return nil, 0, err
	}

	stats := make([]RouteStat, 0, len(t.Rows))
	skipped := 0
	for _, line := range t.Rows {
		stat, err := newRouteStat(line, idx)
		if err != nil {
			skipped++
			continue
		}
		stats = append(stats, stat)
	}

	return stats, skipped, nil
}

// newRouteStat creates a RouteStat out of a line given the positions of
// route_id, avg_fare_per_min, fare_per_min and trip_duration_minutes
func newRouteStat(line Line, idx []int) (RouteStat, error) {
	routeID := cell(line, idx[0])
	pickupID, dropoffID, err := ParseRouteID(routeID)
	if err != nil {
		return RouteStat{}, err
	}

	return RouteStat{
		RouteID:             routeID,
		PickupID:            pickupID,
		DropoffID:           dropoffID,
		AvgFarePerMin:       parseMeasure(cell(line, idx[1])),
		FarePerMin:          parseMeasure(cell(line, idx[2])),
		TripDurationMinutes: parseMeasure(cell(line, idx[3])),
	}, nil
}

// parseMeasure reads a rate cell, cast would turn "" into a valid zero
func parseMeasure(raw string) Measure {
	if raw == "" {
		return Measure{}
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}
	}
	return Measured(v)
}

// Classification is the verdict of comparing the observed and expected fare rates
type Classification string

const (
	Normal       Classification = "normal"
	Overcharging Classification = "overcharging"
)

// classify flags a rate difference strictly above the threshold
func classify(rateDiffPct float64) Classification {
	if rateDiffPct > OverchargeThresholdPct {
		return Overcharging
	}
	return Normal
}

// RateReport compares the observed fare per minute of a route with its historical average
type RateReport struct {
	RouteID        string         `json:"route_id"`
	AvgRate        float64        `json:"expected_rate"`
	ChargedRate    float64        `json:"observed_rate"`
	AvgDuration    float64        `json:"avg_duration_minutes"`
	TripCount      int            `json:"trip_count"`
	RateDiffPct    float64        `json:"rate_diff_pct"`
	Classification Classification `json:"classification"`
}

// Overcharging reports whether the route is charged above the threshold
func (r RateReport) Overcharging() bool {
	return r.Classification == Overcharging
}

// RateAnalyzer computes RateReports out of the historical route statistics
type RateAnalyzer struct {
	byRoute map[string][]RouteStat
}

// NewRateAnalyzer creates a RateAnalyzer
func NewRateAnalyzer(stats []RouteStat) *RateAnalyzer {
	byRoute := make(map[string][]RouteStat)
	for _, stat := range stats {
		byRoute[stat.RouteID] = append(byRoute[stat.RouteID], stat)
	}
	return &RateAnalyzer{byRoute: byRoute}
}

// Analyze averages each rate of a route over its valid measures and classifies the fare rate.
// TripCount is the number of rows. It fails with ErrInsufficientHistory when the route has
// no statistics, no valid expected or observed rate, or a zero expected rate.
func (a *RateAnalyzer) Analyze(routeID string) (RateReport, error) {
	stats := a.byRoute[routeID]
	if len(stats) == 0 {
		return RateReport{}, fmt.Errorf("route %s: %w", routeID, ErrInsufficientHistory)
	}

	var avgRate, chargedRate, duration mean
	for _, stat := range stats {
		avgRate.add(stat.AvgFarePerMin)
		chargedRate.add(stat.FarePerMin)
		duration.add(stat.TripDurationMinutes)
	}

	report := RateReport{
		RouteID:   routeID,
		TripCount: len(stats),
	}
	var ok bool
	if report.AvgRate, ok = avgRate.value(); !ok {
		return RateReport{}, fmt.Errorf("route %s: no expected rate: %w", routeID, ErrInsufficientHistory)
	}
	if report.AvgRate == 0 {
		return RateReport{}, fmt.Errorf("route %s: expected rate is zero: %w", routeID, ErrInsufficientHistory)
	}
	if report.ChargedRate, ok = chargedRate.value(); !ok {
		return RateReport{}, fmt.Errorf("route %s: no observed rate: %w", routeID, ErrInsufficientHistory)
	}
	report.AvgDuration, _ = duration.value()

	report.RateDiffPct = (report.ChargedRate - report.AvgRate) / report.AvgRate * 100
	report.Classification = classify(report.RateDiffPct)

	return report, nil
}
