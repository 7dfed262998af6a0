// Package graph provides a directed weighted graph that is assembled once with
// a Builder, frozen into an immutable Graph, and then searched by a Router.
package graph

import "fmt"

type VertexID int

type EdgeID int

// Edge weights must be non-negative; nothing downstream checks this.
type Edge struct {
	From   VertexID
	To     VertexID
	Weight float64
}

// Builder accumulates edges for a graph with a fixed vertex count.
type Builder struct {
	edges     []Edge
	incidence [][]EdgeID
	built     bool
}

func NewBuilder(vertexCount int) *Builder {
	return &Builder{incidence: make([][]EdgeID, vertexCount)}
}

// AddEdge appends an edge and returns its id. Ids are assigned in insertion order.
// It panics on out-of-range vertices or after Build.
func (b *Builder) AddEdge(e Edge) EdgeID {
	if b.built {
		panic("graph: AddEdge after Build")
	}
	if !b.valid(e.From) || !b.valid(e.To) {
		panic(fmt.Sprintf("graph: edge %d->%d out of range (vertex count %d)", e.From, e.To, len(b.incidence)))
	}

	id := EdgeID(len(b.edges))
	b.edges = append(b.edges, e)
	b.incidence[e.From] = append(b.incidence[e.From], id)
	return id
}

func (b *Builder) valid(v VertexID) bool {
	return v >= 0 && int(v) < len(b.incidence)
}

// Build freezes the builder into a Graph. The builder cannot be used afterwards.
func (b *Builder) Build() *Graph {
	b.built = true
	g := &Graph{edges: b.edges, incidence: b.incidence}
	b.edges, b.incidence = nil, nil
	return g
}

// Graph is read-only and safe for concurrent use.
type Graph struct {
	edges     []Edge
	incidence [][]EdgeID
}

func (g *Graph) VertexCount() int {
	return len(g.incidence)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// IncidentEdges returns the ids of the edges leaving v in insertion order.
// The slice must not be modified.
func (g *Graph) IncidentEdges(v VertexID) []EdgeID {
	return g.incidence[v]
}
