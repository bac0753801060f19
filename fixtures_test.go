package farewatch

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const zonesCSV = `LocationID,Borough,Zone,service_zone
1,EWR,Newark Airport,EWR
4,Manhattan,Alphabet City,Yellow Zone
12,Manhattan,Battery Park,Yellow Zone
13,Manhattan,Battery Park City,Yellow Zone
24,Manhattan,Bloomingdale,Yellow Zone
7,Queens,Astoria,Boro Zone
`

const overchargesCSV = `route_id,fare_amount,expected_fare
4_7,45.0,30.0
12_4,20.0,10.0
4_7,50.0,31.0
4_70,12.0,11.0
`

const anomaliesCSV = `route_id,avg_fare_per_min,fare_per_min,trip_duration_minutes,anomaly_score
4_7,10,12,20,0.91
4_7,10,12,30,0.87
12_7,8,8.5,15,0.40
12_7,8,9.5,25,0.42
13_7,5,6,18,0.35
24_7,9,9,22,0.30
13_12,1,1,10,0.10
7_4,10,10.5,25,0.20
4_13,0,1,5,0.99
1_7,3,4,40,0.50
x_7,1,1,1,0.00
`

func mustReadCSV(t *testing.T, data string) Table {
	t.Helper()
	table, err := ReadCSV(context.TODO(), strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func testDatasets(t *testing.T) Datasets {
	t.Helper()
	return Datasets{
		Overcharges: mustReadCSV(t, overchargesCSV),
		Anomalies:   mustReadCSV(t, anomaliesCSV),
		Zones:       mustReadCSV(t, zonesCSV),
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(testDatasets(t), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return engine
}

func testZones(t *testing.T) *ZoneDirectory {
	t.Helper()
	zones, err := NewZoneDirectory(mustReadCSV(t, zonesCSV))
	require.NoError(t, err)
	return zones
}

func testStats(t *testing.T) []RouteStat {
	t.Helper()
	stats, _, err := ParseRouteStats(mustReadCSV(t, anomaliesCSV))
	require.NoError(t, err)
	return stats
}
