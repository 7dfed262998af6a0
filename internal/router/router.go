// Package router turns the transit catalogue into a time-weighted graph and
// answers minimum-time itinerary queries over it.
package router

import (
	"errors"
	"fmt"
	"math"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/graph"
)

var (
	// ErrNotFound is returned when a query names a stop the catalogue does not know.
	ErrNotFound = errors.New("stop not found")
	// ErrNoRoute is returned when no sequence of rides connects two known stops.
	ErrNoRoute = errors.New("no route")

	errInconsistentRoute = errors.New("route items do not add up to the route weight")
)

type ItemType int

const (
	ItemWait ItemType = iota
	ItemBus
)

func (t ItemType) String() string {
	switch t {
	case ItemWait:
		return "Wait"
	case ItemBus:
		return "Bus"
	default:
		return fmt.Sprintf("ItemType(%d)", int(t))
	}
}

// Item is one step of an itinerary. StopName is set for waits; BusName and
// SpanCount are set for rides.
type Item struct {
	Type      ItemType
	StopName  string
	BusName   string
	SpanCount int
	Time      float64
}

// RouteInfo is a minimum-time itinerary. TotalTime equals the sum of item times.
type RouteInfo struct {
	TotalTime float64
	Items     []Item
}

// TravelEdge is a read-only view of a ride edge, exposed for inspection.
type TravelEdge struct {
	FromStop  string
	ToStop    string
	Bus       string
	SpanCount int
	Time      float64
}

// Router is immutable after Build and safe for concurrent queries. It keeps a
// reference to the catalogue, which must not be mutated while the router is in use.
type Router struct {
	cat      *catalogue.Catalogue
	settings Settings
	graph    *graph.Graph
	solver   *graph.Router
	edges    []edgeInfo
}

// Build constructs the routing graph for the current catalogue contents.
func Build(cat *catalogue.Catalogue, settings Settings) (*Router, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	g, edges := newGraphBuilder(cat, settings).build()
	return &Router{
		cat:      cat,
		settings: settings,
		graph:    g,
		solver:   graph.NewRouter(g),
		edges:    edges,
	}, nil
}

func (r *Router) Settings() Settings {
	return r.settings
}

func (r *Router) VertexCount() int {
	return r.graph.VertexCount()
}

func (r *Router) EdgeCount() int {
	return r.graph.EdgeCount()
}

// TravelEdges lists every ride edge in insertion order.
func (r *Router) TravelEdges() []TravelEdge {
	var out []TravelEdge
	for _, info := range r.edges {
		if info.kind != edgeRide {
			continue
		}
		out = append(out, TravelEdge{
			FromStop:  r.cat.Stop(info.from).Name,
			ToStop:    r.cat.Stop(info.stop).Name,
			Bus:       info.ride.Bus,
			SpanCount: info.ride.SpanCount,
			Time:      info.ride.Time,
		})
	}
	return out
}

// FindRoute returns the fastest itinerary between two stops, starting and
// ending in the waiting state. A stop routed to itself is an empty itinerary.
func (r *Router) FindRoute(from, to string) (RouteInfo, error) {
	if from == to {
		return RouteInfo{Items: []Item{}}, nil
	}

	fromStop, ok := r.lookup(from)
	if !ok {
		return RouteInfo{}, fmt.Errorf("%q: %w", from, ErrNotFound)
	}
	toStop, ok := r.lookup(to)
	if !ok {
		return RouteInfo{}, fmt.Errorf("%q: %w", to, ErrNotFound)
	}

	route, ok := r.solver.BuildRoute(waitVertex(fromStop), waitVertex(toStop))
	if !ok {
		return RouteInfo{}, fmt.Errorf("%q -> %q: %w", from, to, ErrNoRoute)
	}

	return r.itinerary(route)
}

// lookup only accepts stops that existed when the graph was built.
func (r *Router) lookup(name string) (catalogue.StopID, bool) {
	stop, ok := r.cat.FindStop(name)
	if !ok || int(waitVertex(stop.ID)) >= r.graph.VertexCount() {
		return 0, false
	}
	return stop.ID, true
}

func (r *Router) itinerary(route graph.Route) (RouteInfo, error) {
	info := RouteInfo{TotalTime: route.Weight, Items: make([]Item, 0, len(route.Edges))}

	var sum float64
	for _, id := range route.Edges {
		meta := r.edges[id]
		edge := r.graph.Edge(id)

		var item Item
		switch meta.kind {
		case edgeWait:
			item = Item{Type: ItemWait, StopName: r.cat.Stop(stopOfVertex(edge.From)).Name, Time: edge.Weight}
		case edgeRide:
			item = Item{Type: ItemBus, BusName: meta.ride.Bus, SpanCount: meta.ride.SpanCount, Time: meta.ride.Time}
		}
		sum += item.Time
		info.Items = append(info.Items, item)
	}

	if math.Abs(sum-info.TotalTime) > 1e-9*math.Max(1, info.TotalTime) {
		return RouteInfo{}, fmt.Errorf("%w: items %g, weight %g", errInconsistentRoute, sum, info.TotalTime)
	}
	return info, nil
}
