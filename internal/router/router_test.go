package router

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/utils"
)

// lineCatalogue returns stops A(0,0), B(0,1), C(0,2) with A->B and B->C recorded as 1000 m.
func lineCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()

	cat := catalogue.New()
	cat.AddStop("A", catalogue.Coordinates{Lat: 0, Lng: 0})
	cat.AddStop("B", catalogue.Coordinates{Lat: 0, Lng: 1})
	cat.AddStop("C", catalogue.Coordinates{Lat: 0, Lng: 2})
	require.NoError(t, cat.SetDistance("A", "B", 1000))
	require.NoError(t, cat.SetDistance("B", "C", 1000))
	return cat
}

func mustBuild(t *testing.T, cat *catalogue.Catalogue, settings Settings) *Router {
	t.Helper()

	r, err := Build(cat, settings)
	require.NoError(t, err)
	return r
}

func ridesOf(r *Router, bus string) []TravelEdge {
	var out []TravelEdge
	for _, e := range r.TravelEdges() {
		if e.Bus == bus {
			out = append(out, e)
		}
	}
	return out
}

func itemTimeSum(info RouteInfo) float64 {
	var sum float64
	for _, item := range info.Items {
		sum += item.Time
	}
	return sum
}

func TestFindRouteSingleRide(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddBus("1", []string{"A", "B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 5, BusVelocity: 60})

	info, err := r.FindRoute("A", "C")
	require.NoError(t, err)

	// 2000 m at 60 km/h (1000 m/min) is 2 minutes.
	assert.InDelta(t, 7.0, info.TotalTime, 1e-9)
	require.Len(t, info.Items, 2)
	assert.Equal(t, Item{Type: ItemWait, StopName: "A", Time: 5}, info.Items[0])
	assert.Equal(t, ItemBus, info.Items[1].Type)
	assert.Equal(t, "1", info.Items[1].BusName)
	assert.Equal(t, 2, info.Items[1].SpanCount)
	assert.InDelta(t, 2.0, info.Items[1].Time, 1e-9)
}

func TestGraphShape(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddBus("1", []string{"A", "B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 5, BusVelocity: 60})

	assert.Equal(t, 6, r.VertexCount(), "two vertices per stop")
	assert.Equal(t, 6, r.EdgeCount(), "three waits and three rides")
}

func TestRoundtripEdgesFollowListedOrder(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddBus("1", []string{"A", "B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 5, BusVelocity: 60})

	expected := []TravelEdge{
		{FromStop: "A", ToStop: "B", Bus: "1", SpanCount: 1, Time: 1},
		{FromStop: "A", ToStop: "C", Bus: "1", SpanCount: 2, Time: 2},
		{FromStop: "B", ToStop: "C", Bus: "1", SpanCount: 1, Time: 1},
	}
	rides := ridesOf(r, "1")
	require.Len(t, rides, len(expected))
	for i, want := range expected {
		got := rides[i]
		assert.Equal(t, want.FromStop, got.FromStop)
		assert.Equal(t, want.ToStop, got.ToStop)
		assert.Equal(t, want.SpanCount, got.SpanCount)
		assert.InDelta(t, want.Time, got.Time, 1e-9)
	}

	_, err := r.FindRoute("C", "A")
	assert.ErrorIs(t, err, ErrNoRoute, "a roundtrip is not ridden backwards")
}

func TestLinearEdgesRunBothWays(t *testing.T) {
	cat := lineCatalogue(t)
	require.NoError(t, cat.SetDistance("B", "A", 3000))
	cat.AddBus("1", []string{"A", "B", "C"}, false)
	r := mustBuild(t, cat, Settings{BusWaitTime: 0, BusVelocity: 60})

	rides := ridesOf(r, "1")
	require.Len(t, rides, 6)

	backwards := rides[3:]
	assert.Equal(t, "C", backwards[0].FromStop)
	assert.Equal(t, "B", backwards[0].ToStop)
	assert.InDelta(t, 1.0, backwards[0].Time, 1e-9, "C->B falls back to the recorded B->C")
	assert.Equal(t, "C", backwards[1].FromStop)
	assert.Equal(t, "A", backwards[1].ToStop)
	assert.Equal(t, 2, backwards[1].SpanCount)
	assert.InDelta(t, 4.0, backwards[1].Time, 1e-9, "B->A uses its own recorded distance")

	info, err := r.FindRoute("C", "A")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, info.TotalTime, 1e-9)
}

func TestRideUsesGeometricFallbackPerSegment(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("A", catalogue.Coordinates{Lat: 55.60, Lng: 37.20})
	cat.AddStop("B", catalogue.Coordinates{Lat: 55.61, Lng: 37.20})
	cat.AddStop("C", catalogue.Coordinates{Lat: 55.62, Lng: 37.20})
	require.NoError(t, cat.SetDistance("A", "B", 1500))
	cat.AddBus("7", []string{"A", "B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 1, BusVelocity: 60})

	a, _ := cat.FindStop("A")
	b, _ := cat.FindStop("B")
	c, _ := cat.FindStop("C")
	estimated := math.Trunc(utils.Haversine(b.Coordinates.Lat, b.Coordinates.Lng, c.Coordinates.Lat, c.Coordinates.Lng))
	require.Equal(t, estimated, cat.Distance(b.ID, c.ID))
	require.Equal(t, 1500.0, cat.Distance(a.ID, b.ID))
	expected := (1500 + estimated) / 1000

	rides := ridesOf(r, "7")
	require.Len(t, rides, 3)
	assert.InDelta(t, expected, rides[1].Time, 1e-9)
	assert.Greater(t, rides[2].Time, 1.0, "unrecorded B->C is estimated from coordinates")
}

func TestFindRouteWithTransfer(t *testing.T) {
	cat := lineCatalogue(t)
	require.NoError(t, cat.SetDistance("B", "C", 1500))
	cat.AddBus("1", []string{"A", "B"}, true)
	cat.AddBus("2", []string{"B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 2, BusVelocity: 30})

	info, err := r.FindRoute("A", "C")
	require.NoError(t, err)

	assert.InDelta(t, 9.0, info.TotalTime, 1e-9)
	require.Len(t, info.Items, 4)
	assert.Equal(t, Item{Type: ItemWait, StopName: "A", Time: 2}, info.Items[0])
	assert.Equal(t, "1", info.Items[1].BusName)
	assert.Equal(t, Item{Type: ItemWait, StopName: "B", Time: 2}, info.Items[2])
	assert.Equal(t, "2", info.Items[3].BusName)
	assert.InDelta(t, 3.0, info.Items[3].Time, 1e-9)
}

func TestFindRoutePrefersFewerWaits(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddBus("1", []string{"A", "B", "C"}, true)
	cat.AddBus("2", []string{"B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 6, BusVelocity: 60})

	info, err := r.FindRoute("A", "C")
	require.NoError(t, err)
	require.Len(t, info.Items, 2, "staying on bus 1 beats changing to bus 2")
	assert.Equal(t, 2, info.Items[1].SpanCount)
}

func TestFindRouteSameStop(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddStop("Lonely", catalogue.Coordinates{Lat: 1, Lng: 1})
	cat.AddBus("1", []string{"A", "B", "C"}, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 5, BusVelocity: 60})

	for _, name := range []string{"A", "Lonely"} {
		t.Run(name, func(t *testing.T) {
			info, err := r.FindRoute(name, name)
			require.NoError(t, err)
			assert.Zero(t, info.TotalTime)
			assert.NotNil(t, info.Items)
			assert.Empty(t, info.Items)
		})
	}
}

func TestFindRouteErrors(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddStop("D", catalogue.Coordinates{Lat: 1, Lng: 1})
	cat.AddBus("1", []string{"A", "B", "C"}, false)
	r := mustBuild(t, cat, Settings{BusWaitTime: 5, BusVelocity: 60})

	t.Run("unknown origin", func(t *testing.T) {
		_, err := r.FindRoute("Nowhere", "A")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrNoRoute)
	})

	t.Run("unknown destination", func(t *testing.T) {
		_, err := r.FindRoute("A", "Nowhere")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown on both sides", func(t *testing.T) {
		_, err := r.FindRoute("Nowhere", "Elsewhere")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("disconnected stops", func(t *testing.T) {
		_, err := r.FindRoute("A", "D")
		assert.ErrorIs(t, err, ErrNoRoute)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("stop added after build is unknown to the graph", func(t *testing.T) {
		cat.AddStop("Late", catalogue.Coordinates{})
		_, err := r.FindRoute("A", "Late")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBuildRejectsInvalidSettings(t *testing.T) {
	cat := lineCatalogue(t)

	tests := []struct {
		name     string
		settings Settings
		field    string
	}{
		{name: "zero velocity", settings: Settings{BusWaitTime: 1, BusVelocity: 0}, field: "bus_velocity"},
		{name: "negative velocity", settings: Settings{BusWaitTime: 1, BusVelocity: -10}, field: "bus_velocity"},
		{name: "negative wait", settings: Settings{BusWaitTime: -1, BusVelocity: 40}, field: "bus_wait_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(cat, tt.settings)
			assert.Nil(t, r)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	t.Run("zero wait is allowed", func(t *testing.T) {
		_, err := Build(cat, Settings{BusWaitTime: 0, BusVelocity: 40})
		assert.NoError(t, err)
	})
}

func TestEmptyBusIsSkipped(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddBus("ghost", []string{"X", "Y"}, false)
	cat.AddBus("none", nil, true)
	r := mustBuild(t, cat, Settings{BusWaitTime: 5, BusVelocity: 60})

	assert.Equal(t, 3, r.EdgeCount(), "only the wait edges remain")
	assert.Empty(t, r.TravelEdges())
}

func TestBuildIsDeterministic(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddBus("1", []string{"A", "B", "C"}, false)
	cat.AddBus("2", []string{"C", "A"}, true)
	settings := Settings{BusWaitTime: 3, BusVelocity: 45}

	first := mustBuild(t, cat, settings)
	second := mustBuild(t, cat, settings)
	assert.Equal(t, first.TravelEdges(), second.TravelEdges())

	for _, pair := range [][2]string{{"A", "C"}, {"C", "A"}, {"B", "A"}} {
		a, err := first.FindRoute(pair[0], pair[1])
		require.NoError(t, err)
		b, err := second.FindRoute(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestRebuildSeesNewBuses(t *testing.T) {
	cat := lineCatalogue(t)
	cat.AddStop("D", catalogue.Coordinates{Lat: 0, Lng: 3})
	cat.AddBus("1", []string{"A", "B", "C"}, true)
	settings := Settings{BusWaitTime: 5, BusVelocity: 60}

	before := mustBuild(t, cat, settings)
	_, err := before.FindRoute("A", "D")
	require.ErrorIs(t, err, ErrNoRoute)

	require.NoError(t, cat.SetDistance("C", "D", 1000))
	cat.AddBus("2", []string{"C", "D"}, true)

	after := mustBuild(t, cat, settings)
	info, err := after.FindRoute("A", "D")
	require.NoError(t, err)
	assert.InDelta(t, 5+2+5+1, info.TotalTime, 1e-9)
}

func TestTotalTimeMatchesItemsForAllPairs(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("Tolstopaltsevo", catalogue.Coordinates{Lat: 55.611087, Lng: 37.20829})
	cat.AddStop("Marushkino", catalogue.Coordinates{Lat: 55.595884, Lng: 37.209755})
	cat.AddStop("Rasskazovka", catalogue.Coordinates{Lat: 55.632761, Lng: 37.333324})
	cat.AddStop("Biryulyovo Zapadnoye", catalogue.Coordinates{Lat: 55.574371, Lng: 37.6517})
	cat.AddStop("Biryusinka", catalogue.Coordinates{Lat: 55.581065, Lng: 37.64839})
	cat.AddStop("Universam", catalogue.Coordinates{Lat: 55.587655, Lng: 37.645687})
	require.NoError(t, cat.SetDistance("Tolstopaltsevo", "Marushkino", 3900))
	require.NoError(t, cat.SetDistance("Marushkino", "Rasskazovka", 9900))
	require.NoError(t, cat.SetDistance("Rasskazovka", "Marushkino", 9500))
	require.NoError(t, cat.SetDistance("Biryulyovo Zapadnoye", "Biryusinka", 1800))
	require.NoError(t, cat.SetDistance("Biryusinka", "Universam", 750))
	require.NoError(t, cat.SetDistance("Universam", "Biryulyovo Zapadnoye", 2500))
	cat.AddBus("750", []string{"Tolstopaltsevo", "Marushkino", "Rasskazovka"}, false)
	cat.AddBus("256", []string{"Biryulyovo Zapadnoye", "Biryusinka", "Universam", "Biryulyovo Zapadnoye"}, true)
	cat.AddBus("828", []string{"Rasskazovka", "Universam"}, false)

	r := mustBuild(t, cat, Settings{BusWaitTime: 6, BusVelocity: 40})

	for _, from := range cat.Stops() {
		for _, to := range cat.Stops() {
			info, err := r.FindRoute(from.Name, to.Name)
			require.NoError(t, err, "%s -> %s", from.Name, to.Name)
			assert.InDelta(t, info.TotalTime, itemTimeSum(info), 1e-9, "%s -> %s", from.Name, to.Name)
			if from.Name != to.Name {
				require.NotEmpty(t, info.Items)
				assert.Equal(t, ItemWait, info.Items[0].Type, "every trip starts by waiting")
				assert.Equal(t, ItemBus, info.Items[len(info.Items)-1].Type, "every trip ends off a bus")
			}
		}
	}
}

func TestItemTypeString(t *testing.T) {
	assert.Equal(t, "Wait", ItemWait.String())
	assert.Equal(t, "Bus", ItemBus.String())
	assert.Equal(t, "ItemType(7)", ItemType(7).String())
}
