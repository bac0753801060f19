package farewatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZoneDirectory(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		hasError bool
	}{
		{
			name: "ok",
			data: zonesCSV,
		},
		{
			name:     "missing Borough column - error",
			data:     "LocationID,Zone\n1,Newark Airport\n",
			hasError: true,
		},
		{
			name:     "non-integer LocationID - error",
			data:     "LocationID,Borough,Zone\none,EWR,Newark Airport\n",
			hasError: true,
		},
		{
			name:     "duplicate LocationID - error",
			data:     "LocationID,Borough,Zone\n1,EWR,Newark Airport\n1,Queens,Astoria\n",
			hasError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewZoneDirectory(mustReadCSV(t, test.data))
			assert.Equal(t, test.hasError, err != nil)
			if test.hasError {
				assert.ErrorIs(t, err, ErrConfiguration)
			}
		})
	}
}

func TestNewZoneDirectory_AbsentDataset(t *testing.T) {
	_, err := NewZoneDirectory(Table{})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestZoneDirectory_SkipsRowsWithoutBorough(t *testing.T) {
	zones, err := NewZoneDirectory(mustReadCSV(t, "LocationID,Borough,Zone\n1,EWR,Newark Airport\n2,,Nowhere\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, zones.Len())
	assert.Equal(t, 1, zones.Skipped())
	_, err = zones.BoroughOf(2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneDirectory_Lookups(t *testing.T) {
	zones := testZones(t)

	id, ok := zones.ResolveByName("Battery Park (Manhattan)")
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	_, ok = zones.ResolveByName("Battery Park")
	assert.False(t, ok)

	name, err := zones.ZoneOf(7)
	assert.NoError(t, err)
	assert.Equal(t, "Astoria", name)

	borough, err := zones.BoroughOf(4)
	assert.NoError(t, err)
	assert.Equal(t, "Manhattan", borough)

	_, err = zones.ZoneOf(999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = zones.BoroughOf(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneDirectory_ZonesInBorough(t *testing.T) {
	zones := testZones(t)

	assert.Equal(t, []int{12, 13, 24}, zones.ZonesInBorough("Manhattan", 4))
	assert.Equal(t, []int{4, 12, 13, 24}, zones.ZonesInBorough("Manhattan", 999))
	assert.Empty(t, zones.ZonesInBorough("Queens", 7))
	assert.Empty(t, zones.ZonesInBorough("Staten Island", 0))
}

func TestZoneDirectory_DuplicateDisplayNameResolvesToLast(t *testing.T) {
	zones, err := NewZoneDirectory(mustReadCSV(t, `LocationID,Borough,Zone
56,Queens,Corona
57,Queens,Corona
7,Queens,Astoria
`))
	require.NoError(t, err)

	id, ok := zones.ResolveByName("Corona (Queens)")
	assert.True(t, ok)
	assert.Equal(t, 57, id)
	assert.Equal(t, []string{"Corona (Queens)", "Astoria (Queens)"}, zones.DisplayNames())
}

func TestZoneDirectory_Listings(t *testing.T) {
	zones := testZones(t)

	assert.Equal(t, []string{"EWR", "Manhattan", "Queens"}, zones.Boroughs())
	assert.Len(t, zones.Zones(""), 6)
	assert.Equal(t, []Zone{{LocationID: 7, Name: "Astoria", Borough: "Queens"}}, zones.Zones("Queens"))
	assert.Equal(t, "Newark Airport (EWR)", zones.DisplayNames()[0])
}
