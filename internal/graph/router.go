package graph

import (
	"container/heap"
	"math"
)

// Route is a minimum-weight path as an ordered list of edges.
type Route struct {
	Weight float64
	Edges  []EdgeID
}

// Router answers point-to-point shortest path queries over a fixed Graph.
//
// Each query runs Dijkstra with a binary heap and stops as soon as the target
// is settled, so a query costs O((V+E) log V) and building the router costs
// nothing beyond holding the graph. No all-pairs table is precomputed.
type Router struct {
	graph *Graph
}

func NewRouter(g *Graph) *Router {
	return &Router{graph: g}
}

type queueItem struct {
	vertex   VertexID
	distance float64
}

// vertexQueue orders by distance, then vertex id, so equal-weight paths are
// resolved the same way on every run.
type vertexQueue []queueItem

func (q vertexQueue) Len() int { return len(q) }
func (q vertexQueue) Less(i, j int) bool {
	if q[i].distance != q[j].distance {
		return q[i].distance < q[j].distance
	}
	return q[i].vertex < q[j].vertex
}
func (q vertexQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *vertexQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *vertexQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

const noEdge EdgeID = -1

// BuildRoute finds a minimum-weight path from one vertex to another. The
// boolean is false when the target is unreachable or either vertex is out of
// range. A vertex routed to itself yields an empty zero-weight route.
func (r *Router) BuildRoute(from, to VertexID) (Route, bool) {
	n := r.graph.VertexCount()
	if from < 0 || int(from) >= n || to < 0 || int(to) >= n {
		return Route{}, false
	}
	if from == to {
		return Route{Edges: []EdgeID{}}, true
	}

	dist := make([]float64, n)
	prev := make([]EdgeID, n)
	settled := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = noEdge
	}
	dist[from] = 0

	queue := &vertexQueue{{vertex: from}}
	for queue.Len() > 0 {
		item := heap.Pop(queue).(queueItem)
		v := item.vertex
		if settled[v] {
			continue
		}
		settled[v] = true
		if v == to {
			break
		}

		for _, id := range r.graph.IncidentEdges(v) {
			e := r.graph.Edge(id)
			if settled[e.To] {
				continue
			}
			if candidate := dist[v] + e.Weight; candidate < dist[e.To] {
				dist[e.To] = candidate
				prev[e.To] = id
				heap.Push(queue, queueItem{vertex: e.To, distance: candidate})
			}
		}
	}

	if !settled[to] {
		return Route{}, false
	}

	var edges []EdgeID
	for v := to; v != from; {
		id := prev[v]
		edges = append(edges, id)
		v = r.graph.Edge(id).From
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return Route{Weight: dist[to], Edges: edges}, true
}
