/*
	Package farewatch checks a taxi route, given as a pickup and dropoff location ID, against
	precomputed overcharge and route anomaly datasets. For the route it reports the matching
	anomaly rows, compares the observed fare per minute with the historical expected rate and
	suggests a cheaper pickup zone in the same borough that reaches the same destination.
*/
package farewatch

import (
	"errors"
	"fmt"
)

// Line is a slice of strings
type Line []string

// OverchargeThresholdPct is the rate difference, in percent, above which a route is
// classified as overcharging
const OverchargeThresholdPct = 10.0

const (
	// dataset column names

	colRouteID        = "route_id"
	colAvgFarePerMin  = "avg_fare_per_min"
	colFarePerMin     = "fare_per_min"
	colTripDuration   = "trip_duration_minutes"
	colLocationID     = "LocationID"
	colZone           = "Zone"
	colBorough        = "Borough"
	routeIDSeparator  = "_"
	displayNameFormat = "%s (%s)"
)

var (
	// ErrConfiguration is returned when a required dataset is missing or malformed.
	// The engine must not serve queries after it.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput is returned for empty or non-numeric location IDs
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned by zone lookups for unknown location IDs
	ErrNotFound = errors.New("not found")
	// ErrInsufficientHistory is returned when a route has no usable historical statistics
	ErrInsufficientHistory = errors.New("not enough historical data")
	// ErrNoAlternative is returned when no cheaper nearby pickup could be suggested
	ErrNoAlternative = errors.New("no alternative pickup found")
)

// Config holds the paths of the datasets the engine is opened from
type Config struct {
	OverchargePath string
	AnomalyPath    string
	ZonePath       string
}

func (c Config) Validate() error {
	switch {
	case c.OverchargePath == "":
		return fmt.Errorf("%w: overcharge dataset path is empty", ErrConfiguration)
	case c.AnomalyPath == "":
		return fmt.Errorf("%w: route anomaly dataset path is empty", ErrConfiguration)
	case c.ZonePath == "":
		return fmt.Errorf("%w: zone lookup dataset path is empty", ErrConfiguration)
	}

	return nil
}

// BatchConfig configures a BatchChecker
type BatchConfig struct {
	Concurrency int
}

func (c BatchConfig) Validate() error {
	if c.Concurrency <= 0 {
		return errors.New("concurrency should be greater than 0")
	}
	return nil
}
