package router

import (
	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/graph"
)

// Every stop owns two vertices: one for waiting at the stop and one for having
// boarded there. Waiting is a single edge from the first to the second; every
// ride without a transfer is a single edge from a boarded vertex to the
// waiting vertex of the stop where the passenger gets off.

func waitVertex(stop catalogue.StopID) graph.VertexID {
	return graph.VertexID(2 * stop)
}

func boardVertex(stop catalogue.StopID) graph.VertexID {
	return graph.VertexID(2*stop + 1)
}

func stopOfVertex(v graph.VertexID) catalogue.StopID {
	return catalogue.StopID(v / 2)
}

type edgeKind uint8

const (
	edgeWait edgeKind = iota
	edgeRide
)

// RideInfo describes the ride modelled by a travel edge.
type RideInfo struct {
	Bus       string
	SpanCount int
	Time      float64
}

type edgeInfo struct {
	kind edgeKind
	stop catalogue.StopID
	from catalogue.StopID
	ride RideInfo
}

type graphBuilder struct {
	cat      *catalogue.Catalogue
	settings Settings
	edges    *graph.Builder
	info     []edgeInfo
}

func newGraphBuilder(cat *catalogue.Catalogue, settings Settings) *graphBuilder {
	return &graphBuilder{
		cat:      cat,
		settings: settings,
		edges:    graph.NewBuilder(2 * cat.StopCount()),
	}
}

func (b *graphBuilder) build() (*graph.Graph, []edgeInfo) {
	for _, stop := range b.cat.Stops() {
		b.add(graph.Edge{From: waitVertex(stop.ID), To: boardVertex(stop.ID), Weight: b.settings.BusWaitTime},
			edgeInfo{kind: edgeWait, stop: stop.ID})
	}

	for _, bus := range b.cat.Buses() {
		if len(bus.Stops) == 0 {
			continue
		}
		b.addRides(bus.Name, bus.Stops)
		if !bus.IsRoundtrip {
			b.addRides(bus.Name, reversed(bus.Stops))
		}
	}

	return b.edges.Build(), b.info
}

// addRides adds an edge for every ordered pair i < j along stops, accumulating
// the directed distance of each intermediate segment.
func (b *graphBuilder) addRides(bus string, stops []catalogue.StopID) {
	for i := 0; i < len(stops); i++ {
		var meters float64
		for j := i + 1; j < len(stops); j++ {
			meters += b.cat.Distance(stops[j-1], stops[j])
			ride := RideInfo{Bus: bus, SpanCount: j - i, Time: b.settings.rideMinutes(meters)}
			b.add(graph.Edge{From: boardVertex(stops[i]), To: waitVertex(stops[j]), Weight: ride.Time},
				edgeInfo{kind: edgeRide, from: stops[i], stop: stops[j], ride: ride})
		}
	}
}

func (b *graphBuilder) add(e graph.Edge, info edgeInfo) {
	id := b.edges.AddEdge(e)
	if int(id) != len(b.info) {
		panic("router: edge metadata out of step with graph")
	}
	b.info = append(b.info, info)
}

func reversed(stops []catalogue.StopID) []catalogue.StopID {
	out := make([]catalogue.StopID, len(stops))
	for i, stop := range stops {
		out[len(stops)-1-i] = stop
	}
	return out
}
