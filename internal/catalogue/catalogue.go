// Package catalogue holds the static transit network: stops, buses and the
// directed table of road distances between stops.
//
// Stops and buses live in insertion-ordered arenas and reference each other by
// integer index, so ids are stable and deterministic for a given load order.
package catalogue

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"transitcatalogue.dev/internal/utils"
)

var (
	ErrStopNotFound     = errors.New("stop not found")
	ErrBusNotFound      = errors.New("bus not found")
	ErrNegativeDistance = errors.New("distance must be non-negative")
)

// StopID is the index of a stop in insertion order.
type StopID int

// BusID is the index of a bus in insertion order.
type BusID int

type Coordinates struct {
	Lat float64
	Lng float64
}

type Stop struct {
	ID          StopID
	Name        string
	Coordinates Coordinates
}

// Bus is a named route. A roundtrip bus is ridden once in listed order; a
// linear bus is ridden in listed order and back again.
type Bus struct {
	ID          BusID
	Name        string
	Stops       []StopID
	IsRoundtrip bool
}

// BusInfo summarises a bus route.
type BusInfo struct {
	StopCount       int
	UniqueStopCount int
	RouteLength     float64
	GeoLength       float64
	Curvature       float64
}

type stopPair struct {
	from StopID
	to   StopID
}

// Catalogue is not safe for concurrent mutation; callers serialise writes.
type Catalogue struct {
	stops []Stop
	buses []Bus

	stopsByName map[string]StopID
	busesByName map[string]BusID
	stopBuses   map[StopID]map[BusID]struct{}
	distances   map[stopPair]int
}

func New() *Catalogue {
	return &Catalogue{
		stopsByName: make(map[string]StopID),
		busesByName: make(map[string]BusID),
		stopBuses:   make(map[StopID]map[BusID]struct{}),
		distances:   make(map[stopPair]int),
	}
}

// AddStop registers a stop. Adding a name twice updates the coordinates of the
// existing stop and keeps its id.
func (c *Catalogue) AddStop(name string, coords Coordinates) StopID {
	if id, ok := c.stopsByName[name]; ok {
		c.stops[id].Coordinates = coords
		return id
	}

	id := StopID(len(c.stops))
	c.stops = append(c.stops, Stop{ID: id, Name: name, Coordinates: coords})
	c.stopsByName[name] = id
	return id
}

// AddBus registers a bus over the named stops. Unknown stop names are dropped
// from the route. Adding a name twice replaces the earlier route.
func (c *Catalogue) AddBus(name string, stopNames []string, isRoundtrip bool) BusID {
	stops := make([]StopID, 0, len(stopNames))
	for _, stopName := range stopNames {
		if id, ok := c.stopsByName[stopName]; ok {
			stops = append(stops, id)
		}
	}

	id, exists := c.busesByName[name]
	if exists {
		for _, stop := range c.buses[id].Stops {
			delete(c.stopBuses[stop], id)
		}
		c.buses[id].Stops = stops
		c.buses[id].IsRoundtrip = isRoundtrip
	} else {
		id = BusID(len(c.buses))
		c.buses = append(c.buses, Bus{ID: id, Name: name, Stops: stops, IsRoundtrip: isRoundtrip})
		c.busesByName[name] = id
	}

	for _, stop := range stops {
		set, ok := c.stopBuses[stop]
		if !ok {
			set = make(map[BusID]struct{})
			c.stopBuses[stop] = set
		}
		set[id] = struct{}{}
	}
	return id
}

// SetDistance records the road distance in meters from one stop to another.
// Distances that name an unknown stop are ignored.
func (c *Catalogue) SetDistance(from, to string, meters int) error {
	if meters < 0 {
		return fmt.Errorf("%s -> %s: %w", from, to, ErrNegativeDistance)
	}

	fromID, ok := c.stopsByName[from]
	if !ok {
		return nil
	}
	toID, ok := c.stopsByName[to]
	if !ok {
		return nil
	}

	c.distances[stopPair{fromID, toID}] = meters
	return nil
}

// Distance returns the distance in meters from one stop to another. The
// recorded forward distance wins, then the recorded reverse distance, and only
// when neither is recorded the great-circle distance between the stops,
// truncated to whole meters like a recorded distance.
func (c *Catalogue) Distance(from, to StopID) float64 {
	if d, ok := c.distances[stopPair{from, to}]; ok {
		return float64(d)
	}
	if d, ok := c.distances[stopPair{to, from}]; ok {
		return float64(d)
	}
	return math.Trunc(c.geoDistance(from, to))
}

func (c *Catalogue) geoDistance(from, to StopID) float64 {
	a, b := c.stops[from].Coordinates, c.stops[to].Coordinates
	return utils.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

func (c *Catalogue) FindStop(name string) (Stop, bool) {
	id, ok := c.stopsByName[name]
	if !ok {
		return Stop{}, false
	}
	return c.stops[id], true
}

func (c *Catalogue) FindBus(name string) (Bus, bool) {
	id, ok := c.busesByName[name]
	if !ok {
		return Bus{}, false
	}
	return c.buses[id], true
}

func (c *Catalogue) Stop(id StopID) Stop {
	return c.stops[id]
}

func (c *Catalogue) Bus(id BusID) Bus {
	return c.buses[id]
}

// Stops returns all stops in insertion order. The slice must not be modified.
func (c *Catalogue) Stops() []Stop {
	return c.stops
}

// Buses returns all buses in insertion order. The slice must not be modified.
func (c *Catalogue) Buses() []Bus {
	return c.buses
}

func (c *Catalogue) StopCount() int {
	return len(c.stops)
}

func (c *Catalogue) BusCount() int {
	return len(c.buses)
}

// BusesByStop returns the sorted names of the buses serving a stop.
func (c *Catalogue) BusesByStop(name string) ([]string, error) {
	id, ok := c.stopsByName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrStopNotFound)
	}

	names := make([]string, 0, len(c.stopBuses[id]))
	for busID := range c.stopBuses[id] {
		names = append(names, c.buses[busID].Name)
	}
	sort.Strings(names)
	return names, nil
}

// BusInfo computes route statistics for the named bus. A linear route is
// counted there and back, so it visits 2n-1 stops.
func (c *Catalogue) BusInfo(name string) (BusInfo, error) {
	bus, ok := c.FindBus(name)
	if !ok {
		return BusInfo{}, fmt.Errorf("%q: %w", name, ErrBusNotFound)
	}

	var info BusInfo
	n := len(bus.Stops)
	if n == 0 {
		return info, nil
	}

	if bus.IsRoundtrip {
		info.StopCount = n
	} else {
		info.StopCount = 2*n - 1
	}

	unique := make(map[StopID]struct{}, n)
	for _, stop := range bus.Stops {
		unique[stop] = struct{}{}
	}
	info.UniqueStopCount = len(unique)

	for i := 1; i < n; i++ {
		prev, cur := bus.Stops[i-1], bus.Stops[i]
		info.RouteLength += c.Distance(prev, cur)
		info.GeoLength += c.geoDistance(prev, cur)
		if !bus.IsRoundtrip {
			info.RouteLength += c.Distance(cur, prev)
			info.GeoLength += c.geoDistance(cur, prev)
		}
	}

	if info.GeoLength > 0 {
		info.Curvature = info.RouteLength / info.GeoLength
	}
	return info, nil
}
