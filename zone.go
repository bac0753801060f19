package farewatch

import (
	"fmt"
	"sort"
)

// Zone is a taxi zone of the zone reference dataset
type Zone struct {
	LocationID int    `json:"location_id"`
	Name       string `json:"zone"`
	Borough    string `json:"borough"`
}

// DisplayName returns the zone as "{Zone} ({Borough})"
func (z Zone) DisplayName() string {
	return fmt.Sprintf(displayNameFormat, z.Name, z.Borough)
}

// ZoneDirectory is a read-only index over the zone reference dataset
type ZoneDirectory struct {
	zones   []Zone
	byID    map[int]Zone
	byName  map[string]int
	names   []string
	skipped int
}

// NewZoneDirectory indexes a zone reference table. The table must have the LocationID,
// Zone and Borough columns and LocationID must be a unique integer. Rows without a
// borough are skipped.
func NewZoneDirectory(t Table) (*ZoneDirectory, error) {
	idx, err := t.indexes("zone lookup", colLocationID, colZone, colBorough)
	if err != nil {
		return nil, err
	}

	d := &ZoneDirectory{
		byID:   make(map[int]Zone, len(t.Rows)),
		byName: make(map[string]int, len(t.Rows)),
	}
	for n, line := range t.Rows {
		id, err := parseID(cell(line, idx[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: zone lookup row %d: %v", ErrConfiguration, n+1, err)
		}
		zone := Zone{
			LocationID: id,
			Name:       cell(line, idx[1]),
			Borough:    cell(line, idx[2]),
		}
		if zone.Borough == "" {
			d.skipped++
			continue
		}
		if _, ok := d.byID[id]; ok {
			return nil, fmt.Errorf("%w: zone lookup has duplicate LocationID %d", ErrConfiguration, id)
		}

		d.zones = append(d.zones, zone)
		d.byID[id] = zone

		// a repeated display name keeps its first position but resolves to the last zone
		name := zone.DisplayName()
		if _, ok := d.byName[name]; !ok {
			d.names = append(d.names, name)
		}
		d.byName[name] = id
	}

	return d, nil
}

// ResolveByName returns the LocationID of a display name
func (d *ZoneDirectory) ResolveByName(displayName string) (int, bool) {
	id, ok := d.byName[displayName]
	return id, ok
}

// Zone returns the zone of a LocationID
func (d *ZoneDirectory) Zone(id int) (Zone, bool) {
	zone, ok := d.byID[id]
	return zone, ok
}

// ZoneOf returns the zone name of a LocationID
func (d *ZoneDirectory) ZoneOf(id int) (string, error) {
	zone, ok := d.byID[id]
	if !ok {
		return "", fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}
	return zone.Name, nil
}

// BoroughOf returns the borough of a LocationID
func (d *ZoneDirectory) BoroughOf(id int) (string, error) {
	zone, ok := d.byID[id]
	if !ok {
		return "", fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}
	return zone.Borough, nil
}

// ZonesInBorough returns the LocationIDs of a borough in ascending order, leaving out excluding
func (d *ZoneDirectory) ZonesInBorough(borough string, excluding int) []int {
	var ids []int
	for _, zone := range d.zones {
		if zone.Borough == borough && zone.LocationID != excluding {
			ids = append(ids, zone.LocationID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Zones returns all zones in dataset order, optionally only the ones of a borough
func (d *ZoneDirectory) Zones(borough string) []Zone {
	zones := make([]Zone, 0, len(d.zones))
	for _, zone := range d.zones {
		if borough == "" || zone.Borough == borough {
			zones = append(zones, zone)
		}
	}
	return zones
}

// DisplayNames returns every distinct display name in dataset order
func (d *ZoneDirectory) DisplayNames() []string {
	names := make([]string, len(d.names))
	copy(names, d.names)
	return names
}

// Boroughs returns the distinct boroughs in alphabetical order
func (d *ZoneDirectory) Boroughs() []string {
	seen := make(map[string]bool)
	var boroughs []string
	for _, zone := range d.zones {
		if !seen[zone.Borough] {
			seen[zone.Borough] = true
			boroughs = append(boroughs, zone.Borough)
		}
	}
	sort.Strings(boroughs)
	return boroughs
}

// Len returns the number of zones in the directory
func (d *ZoneDirectory) Len() int {
	return len(d.zones)
}

// Skipped returns the number of rows left out because they had no borough
func (d *ZoneDirectory) Skipped() int {
	return d.skipped
}
