package farewatch

import (
	"fmt"
	"sort"
)

// Candidate is an alternative pickup zone with its aggregated rates to the queried dropoff
type Candidate struct {
	PickupID    int     `json:"pickup_id"`
	Zone        string  `json:"zone"`
	Borough     string  `json:"borough"`
	AvgRate     float64 `json:"avg_rate"`
	ChargedRate float64 `json:"charged_rate"`
	TripCount   int     `json:"trip_count"`
}

// Suggestion is the cheapest Candidate together with the estimated rate reduction
// against the observed rate of the queried route
type Suggestion struct {
	Candidate
	ImprovementPct float64 `json:"improvement_pct"`
}

// AlternativeFinder searches the pickup zones of the same borough for a cheaper
// route to the same dropoff
type AlternativeFinder struct {
	zones     *ZoneDirectory
	byDropoff map[int][]RouteStat
}

// NewAlternativeFinder creates an AlternativeFinder
func NewAlternativeFinder(zones *ZoneDirectory, stats []RouteStat) *AlternativeFinder {
	byDropoff := make(map[int][]RouteStat)
	for _, stat := range stats {
		byDropoff[stat.DropoffID] = append(byDropoff[stat.DropoffID], stat)
	}
	return &AlternativeFinder{
		zones:     zones,
		byDropoff: byDropoff,
	}
}

// Candidates ranks the other pickup zones of the pickup's borough that have statistics
// for routes to dropoffID, cheapest expected rate first. Groups with the same rate keep
// ascending pickup ID order. Rates are averaged over valid measures and TripCount counts
// the rows with a valid trip duration.
func (f *AlternativeFinder) Candidates(pickupID, dropoffID int) ([]Candidate, error) {
	borough, err := f.zones.BoroughOf(pickupID)
	if err != nil {
		return nil, fmt.Errorf("%w: pickup %w", ErrNoAlternative, err)
	}

	nearby := make(map[int]bool)
	for _, id := range f.zones.ZonesInBorough(borough, pickupID) {
		nearby[id] = true
	}

	type group struct {
		avgRate, chargedRate mean
		trips                int
	}
	groups := make(map[int]*group)
	var pickups []int
	for _, stat := range f.byDropoff[dropoffID] {
		if !nearby[stat.PickupID] {
			continue
		}
		g, ok := groups[stat.PickupID]
		if !ok {
			g = &group{}
			groups[stat.PickupID] = g
			pickups = append(pickups, stat.PickupID)
		}
		g.avgRate.add(stat.AvgFarePerMin)
		g.chargedRate.add(stat.FarePerMin)
		if stat.TripDurationMinutes.Valid {
			g.trips++
		}
	}
	sort.Ints(pickups)

	candidates := make([]Candidate, 0, len(pickups))
	for _, id := range pickups {
		g := groups[id]
		avgRate, ok := g.avgRate.value()
		if !ok {
			// a pickup without any expected rate cannot be ranked
			continue
		}
		chargedRate, _ := g.chargedRate.value()
		zone, _ := f.zones.Zone(id)
		candidates = append(candidates, Candidate{
			PickupID:    id,
			Zone:        zone.Name,
			Borough:     zone.Borough,
			AvgRate:     avgRate,
			ChargedRate: chargedRate,
			TripCount:   g.trips,
		})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no statistics from %s pickups to zone %d", ErrNoAlternative, borough, dropoffID)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AvgRate < candidates[j].AvgRate
	})

	return candidates, nil
}

// Suggest picks the cheapest candidate for a route whose observed rate is chargedRate.
// Every failure is reported as ErrNoAlternative.
func (f *AlternativeFinder) Suggest(pickupID, dropoffID int, chargedRate float64) (Suggestion, error) {
	if chargedRate == 0 {
		return Suggestion{}, fmt.Errorf("%w: observed rate of route %s is zero", ErrNoAlternative, RouteID(pickupID, dropoffID))
	}

	candidates, err := f.Candidates(pickupID, dropoffID)
	if err != nil {
		return Suggestion{}, err
	}

	best := candidates[0]
	return Suggestion{
		Candidate:      best,
		ImprovementPct: (chargedRate - best.AvgRate) / chargedRate * 100,
	}, nil
}
