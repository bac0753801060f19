package farewatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnomalyLookup_MissingRouteID(t *testing.T) {
	ds := testDatasets(t)

	_, err := NewAnomalyLookup(Table{Columns: []string{"fare_amount"}}, ds.Anomalies)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewAnomalyLookup(ds.Overcharges, Table{})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAnomalyLookup_Find(t *testing.T) {
	ds := testDatasets(t)
	lookup, err := NewAnomalyLookup(ds.Overcharges, ds.Anomalies)
	require.NoError(t, err)

	tests := []struct {
		name            string
		routeID         string
		wantOvercharges []string
		wantAnomalies   int
		clean           bool
	}{
		{
			name:            "matches in both datasets in dataset order",
			routeID:         "4_7",
			wantOvercharges: []string{"45.0", "50.0"},
			wantAnomalies:   2,
		},
		{
			name:          "anomaly only",
			routeID:       "7_4",
			wantAnomalies: 1,
		},
		{
			name:            "overcharge only",
			routeID:         "12_4",
			wantOvercharges: []string{"20.0"},
		},
		{
			name:    "no prefix match",
			routeID: "4_",
			clean:   true,
		},
		{
			name:    "reverse direction is a different route",
			routeID: "7_12",
			clean:   true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			findings := lookup.Find(test.routeID)
			assert.Equal(t, test.clean, findings.Clean())
			assert.Len(t, findings.Anomalies, test.wantAnomalies)

			var fares []string
			for _, record := range findings.Overcharges {
				fare, _ := record.Get("fare_amount")
				fares = append(fares, fare)
			}
			assert.Equal(t, test.wantOvercharges, fares)

			for _, record := range append(findings.Overcharges, findings.Anomalies...) {
				assert.Equal(t, test.routeID, record.RouteID)
				routeID, _ := record.Get("route_id")
				assert.Equal(t, test.routeID, routeID)
			}
		})
	}
}

func TestAnomalyLookup_SurfacesRowsVerbatim(t *testing.T) {
	ds := testDatasets(t)
	lookup, err := NewAnomalyLookup(ds.Overcharges, ds.Anomalies)
	require.NoError(t, err)

	findings := lookup.Find("x_7")
	require.Len(t, findings.Anomalies, 1)
	assert.Equal(t, Line{"x_7", "1", "1", "1", "0.00"}, findings.Anomalies[0].Values)
	assert.Equal(t, ds.Anomalies.Columns, findings.Anomalies[0].Columns)
}

func TestAnomalyLookup_FindReturnsCopies(t *testing.T) {
	ds := testDatasets(t)
	lookup, err := NewAnomalyLookup(ds.Overcharges, ds.Anomalies)
	require.NoError(t, err)

	first := lookup.Find("4_7")
	require.NotEmpty(t, first.Anomalies)
	first.Anomalies[0].Values[1] = "999"
	first.Anomalies[0].Columns[1] = "changed"
	first.Overcharges[0].Values[0] = "0_0"

	again := lookup.Find("4_7")
	assert.Equal(t, "10", again.Anomalies[0].Values[1])
	assert.Equal(t, "avg_fare_per_min", again.Anomalies[0].Columns[1])
	assert.Equal(t, "4_7", again.Overcharges[0].Values[0])
}
