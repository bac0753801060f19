package farewatch

import (
	"fmt"
	"strconv"
	"strings"
)

// RouteQuery is a directed pickup to dropoff pair of location IDs
type RouteQuery struct {
	PickupID  int `json:"pickup_id"`
	DropoffID int `json:"dropoff_id"`

	// routeID keeps the digits as the caller typed them, "004" is not "4"
	routeID string
}

// RouteID returns the route key of the query
func (q RouteQuery) RouteID() string {
	if q.routeID != "" {
		return q.routeID
	}
	return RouteID(q.PickupID, q.DropoffID)
}

// NewRouteQuery creates a RouteQuery out of raw pickup and dropoff IDs
func NewRouteQuery(rawPickup, rawDropoff string) (RouteQuery, error) {
	pickup, err := parseID(rawPickup)
	if err != nil {
		return RouteQuery{}, fmt.Errorf("pickup: %w", err)
	}
	dropoff, err := parseID(rawDropoff)
	if err != nil {
		return RouteQuery{}, fmt.Errorf("dropoff: %w", err)
	}
	return RouteQuery{
		PickupID:  pickup,
		DropoffID: dropoff,
		routeID:   strings.TrimSpace(rawPickup) + routeIDSeparator + strings.TrimSpace(rawDropoff),
	}, nil
}

// MakeRouteID builds the route key of raw pickup and dropoff IDs. Surrounding spaces are
// trimmed, the digits are kept as given. Order matters, A to B is a different route than B to A.
func MakeRouteID(rawPickup, rawDropoff string) (string, error) {
	q, err := NewRouteQuery(rawPickup, rawDropoff)
	if err != nil {
		return "", err
	}
	return q.RouteID(), nil
}

// RouteID joins pickup and dropoff IDs into the route key "<pickup>_<dropoff>"
func RouteID(pickupID, dropoffID int) string {
	return strconv.Itoa(pickupID) + routeIDSeparator + strconv.Itoa(dropoffID)
}

// ParseRouteID splits a route key into its pickup and dropoff IDs
func ParseRouteID(routeID string) (pickupID, dropoffID int, err error) {
	parts := strings.Split(routeID, routeIDSeparator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed route id %q: want two parts, got %d", routeID, len(parts))
	}

	pickupID, err = parseID(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed route id %q: %w", routeID, err)
	}
	dropoffID, err = parseID(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed route id %q: %w", routeID, err)
	}

	return pickupID, dropoffID, nil
}

// parseID parses a non-negative decimal location ID.
// strconv is used rather than cast since cast honours base prefixes like 0x and 0.
func parseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty location id", ErrInvalidInput)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: location id %q is not a non-negative integer", ErrInvalidInput, raw)
		}
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: location id %q: %v", ErrInvalidInput, raw, err)
	}
	return id, nil
}
