package catalogue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcatalogue.dev/internal/utils"
)

func newTestCatalogue(t *testing.T) *Catalogue {
	t.Helper()

	c := New()
	c.AddStop("Tolstopaltsevo", Coordinates{Lat: 55.611087, Lng: 37.20829})
	c.AddStop("Marushkino", Coordinates{Lat: 55.595884, Lng: 37.209755})
	c.AddStop("Rasskazovka", Coordinates{Lat: 55.632761, Lng: 37.333324})
	c.AddStop("Biryulyovo Zapadnoye", Coordinates{Lat: 55.574371, Lng: 37.6517})
	c.AddStop("Biryusinka", Coordinates{Lat: 55.581065, Lng: 37.64839})
	c.AddStop("Universam", Coordinates{Lat: 55.587655, Lng: 37.645687})

	require.NoError(t, c.SetDistance("Tolstopaltsevo", "Marushkino", 3900))
	require.NoError(t, c.SetDistance("Marushkino", "Rasskazovka", 9900))
	require.NoError(t, c.SetDistance("Marushkino", "Marushkino", 100))
	require.NoError(t, c.SetDistance("Rasskazovka", "Marushkino", 9500))
	require.NoError(t, c.SetDistance("Biryulyovo Zapadnoye", "Biryusinka", 1800))
	require.NoError(t, c.SetDistance("Biryusinka", "Universam", 750))
	require.NoError(t, c.SetDistance("Universam", "Biryulyovo Zapadnoye", 2500))

	c.AddBus("750", []string{"Tolstopaltsevo", "Marushkino", "Marushkino", "Rasskazovka"}, false)
	c.AddBus("256", []string{"Biryulyovo Zapadnoye", "Biryusinka", "Universam", "Biryulyovo Zapadnoye"}, true)
	return c
}

func TestAddStop(t *testing.T) {
	c := New()

	a := c.AddStop("A", Coordinates{Lat: 1, Lng: 2})
	b := c.AddStop("B", Coordinates{Lat: 3, Lng: 4})
	assert.Equal(t, StopID(0), a)
	assert.Equal(t, StopID(1), b)

	t.Run("re-adding keeps the id and updates coordinates", func(t *testing.T) {
		again := c.AddStop("A", Coordinates{Lat: 9, Lng: 9})
		assert.Equal(t, a, again)
		stop, ok := c.FindStop("A")
		require.True(t, ok)
		assert.Equal(t, Coordinates{Lat: 9, Lng: 9}, stop.Coordinates)
		assert.Equal(t, 2, c.StopCount())
	})

	t.Run("unknown stop", func(t *testing.T) {
		_, ok := c.FindStop("missing")
		assert.False(t, ok)
	})
}

func TestAddBusDropsUnknownStops(t *testing.T) {
	c := New()
	c.AddStop("A", Coordinates{})
	c.AddStop("B", Coordinates{})

	id := c.AddBus("1", []string{"A", "ghost", "B"}, true)
	bus := c.Bus(id)
	assert.Equal(t, []StopID{0, 1}, bus.Stops)
	assert.True(t, bus.IsRoundtrip)
}

func TestAddBusReplacesRoute(t *testing.T) {
	c := New()
	c.AddStop("A", Coordinates{})
	c.AddStop("B", Coordinates{})
	c.AddStop("C", Coordinates{})

	first := c.AddBus("1", []string{"A", "B"}, false)
	second := c.AddBus("1", []string{"B", "C"}, true)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.BusCount())

	buses, err := c.BusesByStop("A")
	require.NoError(t, err)
	assert.Empty(t, buses)

	buses, err = c.BusesByStop("C")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, buses)
}

func TestDistance(t *testing.T) {
	c := New()
	a := c.AddStop("A", Coordinates{Lat: 55.6, Lng: 37.2})
	b := c.AddStop("B", Coordinates{Lat: 55.7, Lng: 37.2})
	d := c.AddStop("D", Coordinates{Lat: 55.8, Lng: 37.2})

	require.NoError(t, c.SetDistance("A", "B", 1200))

	t.Run("forward pair", func(t *testing.T) {
		assert.Equal(t, 1200.0, c.Distance(a, b))
	})

	t.Run("reverse falls back to forward value", func(t *testing.T) {
		assert.Equal(t, 1200.0, c.Distance(b, a))
	})

	t.Run("forward wins over reverse", func(t *testing.T) {
		require.NoError(t, c.SetDistance("B", "A", 1500))
		assert.Equal(t, 1500.0, c.Distance(b, a))
		assert.Equal(t, 1200.0, c.Distance(a, b))
	})

	t.Run("unrecorded pair uses great-circle estimate in whole meters", func(t *testing.T) {
		exact := utils.Haversine(55.7, 37.2, 55.8, 37.2)
		require.NotEqual(t, exact, math.Trunc(exact))

		assert.Equal(t, math.Trunc(exact), c.Distance(b, d))
		assert.Equal(t, c.Distance(b, d), c.Distance(d, b))
	})

	t.Run("unknown stops are ignored", func(t *testing.T) {
		assert.NoError(t, c.SetDistance("A", "nowhere", 10))
		assert.NoError(t, c.SetDistance("nowhere", "A", 10))
	})

	t.Run("negative distance rejected", func(t *testing.T) {
		err := c.SetDistance("A", "D", -1)
		assert.ErrorIs(t, err, ErrNegativeDistance)
	})
}

func TestBusesByStop(t *testing.T) {
	c := newTestCatalogue(t)
	c.AddStop("Prazhskaya", Coordinates{Lat: 55.611678, Lng: 37.603831})
	c.AddBus("828", []string{"Biryulyovo Zapadnoye", "Universam", "Biryulyovo Zapadnoye"}, true)

	buses, err := c.BusesByStop("Biryulyovo Zapadnoye")
	require.NoError(t, err)
	assert.Equal(t, []string{"256", "828"}, buses)

	buses, err = c.BusesByStop("Prazhskaya")
	require.NoError(t, err)
	assert.Empty(t, buses)

	_, err = c.BusesByStop("Samara")
	assert.ErrorIs(t, err, ErrStopNotFound)
}

func TestBusInfo(t *testing.T) {
	c := newTestCatalogue(t)

	t.Run("roundtrip", func(t *testing.T) {
		info, err := c.BusInfo("256")
		require.NoError(t, err)
		assert.Equal(t, 4, info.StopCount)
		assert.Equal(t, 3, info.UniqueStopCount)
		assert.Equal(t, 5050.0, info.RouteLength)
		assert.InDelta(t, 1.655862, info.Curvature, 1e-4)
	})

	t.Run("linear counts both directions", func(t *testing.T) {
		info, err := c.BusInfo("750")
		require.NoError(t, err)
		assert.Equal(t, 7, info.StopCount)
		assert.Equal(t, 3, info.UniqueStopCount)
		assert.Equal(t, 27400.0, info.RouteLength)
		assert.InDelta(t, 1.30853, info.Curvature, 1e-4)
	})

	t.Run("unknown bus", func(t *testing.T) {
		_, err := c.BusInfo("751")
		assert.ErrorIs(t, err, ErrBusNotFound)
	})

	t.Run("empty bus", func(t *testing.T) {
		c.AddBus("empty", nil, true)
		info, err := c.BusInfo("empty")
		require.NoError(t, err)
		assert.Equal(t, BusInfo{}, info)
	})
}
