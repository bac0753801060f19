package farewatch

// Findings holds the precomputed rows matching a route, in dataset order
type Findings struct {
	Overcharges []Record `json:"overcharge_rows"`
	Anomalies   []Record `json:"anomaly_rows"`
}

// Clean reports whether no anomalies were detected for the route
func (f Findings) Clean() bool {
	return len(f.Overcharges) == 0 && len(f.Anomalies) == 0
}

// AnomalyLookup retrieves overcharge and anomaly rows by exact route_id
type AnomalyLookup struct {
	overcharges map[string][]Record
	anomalies   map[string][]Record
}

// NewAnomalyLookup indexes the overcharge and route anomaly tables by route_id
func NewAnomalyLookup(overcharges, anomalies Table) (*AnomalyLookup, error) {
	oc, err := indexRecords("overcharge", overcharges)
	if err != nil {
		return nil, err
	}
	ra, err := indexRecords("route anomaly", anomalies)
	if err != nil {
		return nil, err
	}

	return &AnomalyLookup{
		overcharges: oc,
		anomalies:   ra,
	}, nil
}

// Find returns copies of the rows whose route_id equals routeID. There is no prefix or fuzzy matching.
func (l *AnomalyLookup) Find(routeID string) Findings {
	return Findings{
		Overcharges: cloneRecords(l.overcharges[routeID]),
		Anomalies:   cloneRecords(l.anomalies[routeID]),
	}
}

// cloneRecords copies records deep enough that callers cannot reach the index
func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{
			RouteID: r.RouteID,
			Columns: append([]string{}, r.Columns...),
			Values:  append(Line{}, r.Values...),
		}
	}
	return out
}

// indexRecords groups the rows of a table by their route_id keeping the dataset order
func indexRecords(dataset string, t Table) (map[string][]Record, error) {
	idx, err := t.indexes(dataset, colRouteID)
	if err != nil {
		return nil, err
	}

	records := make(map[string][]Record)
	for _, line := range t.Rows {
		routeID := cell(line, idx[0])
		records[routeID] = append(records[routeID], Record{
			RouteID: routeID,
			Columns: t.Columns,
			Values:  line,
		})
	}
	return records, nil
}
