package farewatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cubny/farewatch/internal/metrics"
)

// Datasets are the three tables the engine is built from
type Datasets struct {
	Overcharges Table
	Anomalies   Table
	Zones       Table
}

// RateStatus tells whether a route had enough history to be analysed
type RateStatus string

const (
	RateAnalyzed     RateStatus = "analyzed"
	RateInsufficient RateStatus = "insufficient"
)

// RateOutcome is the result of the rate analysis of a checked route
type RateOutcome struct {
	Status RateStatus  `json:"status"`
	Report *RateReport `json:"report,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// AlternativeStatus tells how the alternative pickup search ended
type AlternativeStatus string

const (
	AlternativeFound AlternativeStatus = "found"
	// AlternativeNoneFound means the search ran but had nothing to offer
	AlternativeNoneFound AlternativeStatus = "none_found"
	// AlternativeUnavailable means the route had no observed rate to compare against
	AlternativeUnavailable AlternativeStatus = "unavailable"
)

// AlternativeOutcome is the result of the alternative pickup search of a checked route
type AlternativeOutcome struct {
	Status     AlternativeStatus `json:"status"`
	Suggestion *Suggestion       `json:"suggestion,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// CheckResult is everything the engine knows about a route
type CheckResult struct {
	Query   RouteQuery `json:"query"`
	RouteID string     `json:"route_id"`
	Pickup  *Zone      `json:"pickup,omitempty"`
	Dropoff *Zone      `json:"dropoff,omitempty"`
	Findings
	Rate        RateOutcome        `json:"rate"`
	Alternative AlternativeOutcome `json:"alternative"`
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger of the engine, slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine answers route checks over datasets loaded once and never modified,
// so it is safe for concurrent use
type Engine struct {
	session      string
	logger       *slog.Logger
	zones        *ZoneDirectory
	lookup       *AnomalyLookup
	rates        *RateAnalyzer
	alternatives *AlternativeFinder
}

// NewEngine builds an engine out of the datasets.
// A missing dataset or a missing required column fails with ErrConfiguration.
func NewEngine(ds Datasets, opts ...Option) (*Engine, error) {
	e := &Engine{
		session: uuid.NewString(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("session", e.session)

	zones, err := NewZoneDirectory(ds.Zones)
	if err != nil {
		return nil, err
	}
	lookup, err := NewAnomalyLookup(ds.Overcharges, ds.Anomalies)
	if err != nil {
		return nil, err
	}
	stats, skipped, err := ParseRouteStats(ds.Anomalies)
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		e.logger.Warn("route anomaly rows skipped", "rows", skipped)
		metrics.ObserveSkippedRows("route_anomalies", skipped)
	}
	if zones.Skipped() > 0 {
		e.logger.Warn("zone rows without borough skipped", "rows", zones.Skipped())
		metrics.ObserveSkippedRows("taxi_zone_lookup", zones.Skipped())
	}

	e.zones = zones
	e.lookup = lookup
	e.rates = NewRateAnalyzer(stats)
	e.alternatives = NewAlternativeFinder(zones, stats)

	e.logger.Info("datasets loaded",
		"zones", zones.Len(),
		"overcharge_rows", len(ds.Overcharges.Rows),
		"anomaly_rows", len(ds.Anomalies.Rows),
		"route_stats", len(stats),
	)

	return e, nil
}

// Open loads the datasets named by conf from CSV files and builds an engine
func Open(ctx context.Context, conf *Config, opts ...Option) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	var ds Datasets
	var err error
	if ds.Overcharges, err = LoadCSV(ctx, conf.OverchargePath); err != nil {
		return nil, err
	}
	if ds.Anomalies, err = LoadCSV(ctx, conf.AnomalyPath); err != nil {
		return nil, err
	}
	if ds.Zones, err = LoadCSV(ctx, conf.ZonePath); err != nil {
		return nil, err
	}

	return NewEngine(ds, opts...)
}

// Session returns the ID the engine tags its logs with
func (e *Engine) Session() string {
	return e.session
}

// Zones returns the zone directory of the engine
func (e *Engine) Zones() *ZoneDirectory {
	return e.zones
}

// CheckRoute checks the route between raw pickup and dropoff location IDs.
// The only error is ErrInvalidInput, every other outcome is part of the result.
func (e *Engine) CheckRoute(pickup, dropoff string) (CheckResult, error) {
	q, err := NewRouteQuery(pickup, dropoff)
	if err != nil {
		return CheckResult{}, err
	}
	return e.check(q), nil
}

// CheckRouteIDs checks the route between two location IDs
func (e *Engine) CheckRouteIDs(pickupID, dropoffID int) (CheckResult, error) {
	if pickupID < 0 || dropoffID < 0 {
		return CheckResult{}, fmt.Errorf("%w: location ids must not be negative", ErrInvalidInput)
	}
	return e.check(RouteQuery{PickupID: pickupID, DropoffID: dropoffID}), nil
}

// CheckRouteByName checks the route between two zones given by their display names
func (e *Engine) CheckRouteByName(pickupName, dropoffName string) (CheckResult, error) {
	pickupID, ok := e.zones.ResolveByName(pickupName)
	if !ok {
		return CheckResult{}, fmt.Errorf("%w: unknown pickup location %q", ErrInvalidInput, pickupName)
	}
	dropoffID, ok := e.zones.ResolveByName(dropoffName)
	if !ok {
		return CheckResult{}, fmt.Errorf("%w: unknown dropoff location %q", ErrInvalidInput, dropoffName)
	}
	return e.check(RouteQuery{PickupID: pickupID, DropoffID: dropoffID}), nil
}

// check runs the lookup, the rate analysis and the alternative search of a route in turn
func (e *Engine) check(q RouteQuery) CheckResult {
	routeID := q.RouteID()
	result := CheckResult{
		Query:    q,
		RouteID:  routeID,
		Findings: e.lookup.Find(routeID),
	}
	if zone, ok := e.zones.Zone(q.PickupID); ok {
		result.Pickup = &zone
	}
	if zone, ok := e.zones.Zone(q.DropoffID); ok {
		result.Dropoff = &zone
	}

	var classification Classification
	report, err := e.rates.Analyze(routeID)
	if err != nil {
		result.Rate = RateOutcome{Status: RateInsufficient, Reason: err.Error()}
	} else {
		result.Rate = RateOutcome{Status: RateAnalyzed, Report: &report}
		classification = report.Classification
	}

	result.Alternative = e.suggest(q, result.Rate.Report)

	metrics.ObserveCheck(string(result.Rate.Status), string(classification), !result.Clean())
	metrics.ObserveAlternative(string(result.Alternative.Status))
	e.logger.Debug("route checked",
		"route_id", routeID,
		"overcharge_rows", len(result.Overcharges),
		"anomaly_rows", len(result.Anomalies),
		"rate_status", result.Rate.Status,
		"classification", classification,
		"alternative", result.Alternative.Status,
	)

	return result
}

// suggest searches an alternative pickup, it never fails the check
func (e *Engine) suggest(q RouteQuery, report *RateReport) AlternativeOutcome {
	if report == nil {
		return AlternativeOutcome{
			Status: AlternativeUnavailable,
			Reason: "route has no observed fare rate to compare against",
		}
	}

	suggestion, err := e.alternatives.Suggest(q.PickupID, q.DropoffID, report.ChargedRate)
	if err != nil {
		return AlternativeOutcome{Status: AlternativeNoneFound, Reason: err.Error()}
	}
	return AlternativeOutcome{Status: AlternativeFound, Suggestion: &suggestion}
}
