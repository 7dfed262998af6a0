// Package transit owns the transit network and its routing graph and
// serializes access to them.
package transit

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/render"
	"transitcatalogue.dev/internal/requests"
	"transitcatalogue.dev/internal/router"
	"transitcatalogue.dev/internal/svg"
)

// ErrGraphNotBuilt is returned by route queries issued before BuildGraph succeeded.
var ErrGraphNotBuilt = errors.New("routing graph is not built")

// Manager is the entry point to the network. Queries take a read lock and may
// run in parallel; population and graph builds take the write lock.
//
// Changes to the network made after BuildGraph are not visible to route
// queries until the graph is built again.
type Manager struct {
	mu             sync.RWMutex
	source         string
	logger         *slog.Logger
	catalogue      *catalogue.Catalogue
	router         *router.Router
	renderSettings render.Settings
	lastBuilt      time.Time
	buildDuration  time.Duration
}

type Statistics struct {
	Source        string        `json:"source"`
	StopCount     int           `json:"stopCount"`
	BusCount      int           `json:"busCount"`
	GraphBuilt    bool          `json:"graphBuilt"`
	VertexCount   int           `json:"vertexCount"`
	EdgeCount     int           `json:"edgeCount"`
	LastBuilt     time.Time     `json:"lastBuilt"`
	BuildDuration time.Duration `json:"buildDuration"`
}

// NewManager returns a manager with an empty network.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Manager{
		logger:         logger,
		catalogue:      catalogue.New(),
		renderSettings: render.DefaultSettings(),
	}
}

// InitManager loads the network named by config.Source and builds its routing
// graph. Routing settings found in a JSON document take precedence over
// config.RoutingSettings.
func InitManager(ctx context.Context, config Config, logger *slog.Logger) (*Manager, error) {
	manager := NewManager(logger)
	manager.source = config.Source

	if err := manager.load(ctx, config); err != nil {
		return nil, err
	}

	if !manager.GraphBuilt() {
		settings := config.RoutingSettings
		if err := manager.BuildGraph(settings.BusWaitTime, settings.BusVelocity); err != nil {
			return nil, err
		}
	}

	if config.Verbose {
		manager.LogStatistics()
	}
	return manager, nil
}

func (manager *Manager) AddStop(name string, coords catalogue.Coordinates) catalogue.StopID {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.catalogue.AddStop(name, coords)
}

func (manager *Manager) AddBus(name string, stops []string, isRoundtrip bool) catalogue.BusID {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.catalogue.AddBus(name, stops, isRoundtrip)
}

func (manager *Manager) SetDistance(from, to string, meters int) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.catalogue.SetDistance(from, to, meters)
}

// LoadDocument adds the document's network, adopts its render settings and,
// when it carries routing settings, builds the graph.
func (manager *Manager) LoadDocument(doc *requests.Document) error {
	settings, err := doc.RenderSettingsOrDefault()
	if err != nil {
		return err
	}

	manager.mu.Lock()
	err = requests.ApplyBaseRequests(manager.catalogue, doc.BaseRequests)
	manager.renderSettings = settings
	manager.mu.Unlock()
	if err != nil {
		return err
	}

	if doc.RoutingSettings != nil {
		return manager.BuildGraph(doc.RoutingSettings.BusWaitTime, doc.RoutingSettings.BusVelocity)
	}
	return nil
}

// BuildGraph builds the routing graph from the current network and replaces
// any previous graph. Invalid settings leave the previous graph in place.
func (manager *Manager) BuildGraph(waitTime, velocity float64) error {
	settings := router.Settings{BusWaitTime: waitTime, BusVelocity: velocity}

	manager.mu.Lock()
	start := time.Now()
	r, err := router.Build(manager.catalogue, settings)
	if err != nil {
		manager.mu.Unlock()
		logging.LogError(manager.logger, "routing graph build rejected", err,
			slog.Float64("bus_wait_time", waitTime),
			slog.Float64("bus_velocity", velocity))
		return err
	}
	manager.router = r
	manager.lastBuilt = time.Now()
	manager.buildDuration = time.Since(start)
	stops, buses := manager.catalogue.StopCount(), manager.catalogue.BusCount()
	duration := manager.buildDuration
	manager.mu.Unlock()

	logging.LogOperation(manager.logger, "routing_graph_built",
		slog.Int("stop_count", stops),
		slog.Int("bus_count", buses),
		slog.Int("vertex_count", r.VertexCount()),
		slog.Int("edge_count", r.EdgeCount()),
		slog.Duration("duration", duration))
	return nil
}

func (manager *Manager) GraphBuilt() bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.router != nil
}

// FindRoute returns the fastest itinerary between two named stops.
func (manager *Manager) FindRoute(from, to string) (router.RouteInfo, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	if manager.router == nil {
		return router.RouteInfo{}, ErrGraphNotBuilt
	}
	return manager.router.FindRoute(from, to)
}

// RoutingSettings returns the settings of the current graph.
func (manager *Manager) RoutingSettings() (router.Settings, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	if manager.router == nil {
		return router.Settings{}, ErrGraphNotBuilt
	}
	return manager.router.Settings(), nil
}

func (manager *Manager) TravelEdges() ([]router.TravelEdge, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	if manager.router == nil {
		return nil, ErrGraphNotBuilt
	}
	return manager.router.TravelEdges(), nil
}

func (manager *Manager) BusInfo(name string) (catalogue.BusInfo, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.catalogue.BusInfo(name)
}

func (manager *Manager) BusesByStop(name string) ([]string, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.catalogue.BusesByStop(name)
}

func (manager *Manager) FindStop(name string) (catalogue.Stop, bool) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.catalogue.FindStop(name)
}

// FindBus returns the bus together with its stops in route order.
func (manager *Manager) FindBus(name string) (catalogue.Bus, []catalogue.Stop, bool) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	bus, ok := manager.catalogue.FindBus(name)
	if !ok {
		return catalogue.Bus{}, nil, false
	}
	stops := make([]catalogue.Stop, len(bus.Stops))
	for i, id := range bus.Stops {
		stops[i] = manager.catalogue.Stop(id)
	}
	return bus, stops, true
}

// Stops returns a snapshot of all stops in insertion order.
func (manager *Manager) Stops() []catalogue.Stop {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return slices.Clone(manager.catalogue.Stops())
}

// Buses returns a snapshot of all buses in insertion order.
func (manager *Manager) Buses() []catalogue.Bus {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return slices.Clone(manager.catalogue.Buses())
}

func (manager *Manager) RenderSettings() render.Settings {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.renderSettings
}

func (manager *Manager) SetRenderSettings(settings render.Settings) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.renderSettings = settings
}

// RenderMap draws the current network.
func (manager *Manager) RenderMap(settings render.Settings) *svg.Document {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return render.NewMapRenderer(settings).Render(manager.catalogue)
}

func (manager *Manager) Statistics() Statistics {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	stats := Statistics{
		Source:        manager.source,
		StopCount:     manager.catalogue.StopCount(),
		BusCount:      manager.catalogue.BusCount(),
		GraphBuilt:    manager.router != nil,
		LastBuilt:     manager.lastBuilt,
		BuildDuration: manager.buildDuration,
	}
	if manager.router != nil {
		stats.VertexCount = manager.router.VertexCount()
		stats.EdgeCount = manager.router.EdgeCount()
	}
	return stats
}

func (manager *Manager) LogStatistics() {
	stats := manager.Statistics()
	logging.LogOperation(manager.logger, "transit_network_statistics",
		slog.String("source", stats.Source),
		slog.Int("stop_count", stats.StopCount),
		slog.Int("bus_count", stats.BusCount),
		slog.Bool("graph_built", stats.GraphBuilt),
		slog.Int("vertex_count", stats.VertexCount),
		slog.Int("edge_count", stats.EdgeCount),
		slog.Time("last_built", stats.LastBuilt))
}
