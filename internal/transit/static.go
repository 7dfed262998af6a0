package transit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/jamespfennell/gtfs"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/requests"
	"transitcatalogue.dev/internal/utils"
)

// ImportSummary counts what a GTFS import added to the network.
type ImportSummary struct {
	Stops        int
	Buses        int
	SkippedStops int
}

func rawData(ctx context.Context, config Config, logger *slog.Logger) ([]byte, error) {
	if config.isLocalFile() {
		b, err := os.ReadFile(config.Source)
		if err != nil {
			return nil, fmt.Errorf("error reading local network file: %w", err)
		}
		return b, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.downloadTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading network data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "download_network_data")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading network data: unexpected status %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading network data: %w", err)
	}
	return b, nil
}

// load reads config.Source and adds its contents to the network.
func (manager *Manager) load(ctx context.Context, config Config) error {
	start := time.Now()
	b, err := rawData(ctx, config, manager.logger)
	if err != nil {
		return err
	}

	if config.isDocument() {
		doc, err := requests.Decode(bytes.NewReader(b))
		if err != nil {
			return err
		}
		if err := manager.LoadDocument(doc); err != nil {
			return err
		}
		logging.LogOperation(manager.logger, "network_document_loaded",
			slog.String("source", config.Source),
			slog.Int("base_request_count", len(doc.BaseRequests)),
			slog.Duration("duration", time.Since(start)))
		return nil
	}

	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return fmt.Errorf("error parsing GTFS data: %w", err)
	}
	summary := manager.ImportStatic(static)
	logging.LogOperation(manager.logger, "gtfs_data_imported",
		slog.String("source", config.Source),
		slog.Int("stop_count", summary.Stops),
		slog.Int("bus_count", summary.Buses),
		slog.Int("skipped_stop_count", summary.SkippedStops),
		slog.Int("warning_count", len(static.Warnings)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// ImportStatic adds a parsed GTFS feed to the network. Every stop with valid
// coordinates becomes a stop; a name already taken by another stop gets the
// GTFS stop id appended. Every route becomes a bus following the stop
// sequence of its longest trip, named by the route short name or, failing
// that, its id. A trip that ends where it started makes a roundtrip bus.
func (manager *Manager) ImportStatic(static *gtfs.Static) ImportSummary {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	var summary ImportSummary
	stopNames := make(map[string]string, len(static.Stops))
	for i := range static.Stops {
		stop := &static.Stops[i]
		if stop.Latitude == nil || stop.Longitude == nil ||
			utils.ValidateLatitude(*stop.Latitude) != nil || utils.ValidateLongitude(*stop.Longitude) != nil {
			summary.SkippedStops++
			continue
		}

		name := stop.Name
		if name == "" {
			name = stop.Id
		}
		if _, taken := manager.catalogue.FindStop(name); taken {
			name = fmt.Sprintf("%s (%s)", name, stop.Id)
		}
		manager.catalogue.AddStop(name, catalogue.Coordinates{Lat: *stop.Latitude, Lng: *stop.Longitude})
		stopNames[stop.Id] = name
		summary.Stops++
	}

	longest := longestTripByRoute(static.Trips)
	for i := range static.Routes {
		route := &static.Routes[i]
		trip, ok := longest[route.Id]
		if !ok {
			continue
		}

		stops := tripStops(trip, stopNames)
		if len(stops) == 0 {
			continue
		}

		name := route.ShortName
		if name == "" {
			name = route.Id
		}
		if _, taken := manager.catalogue.FindBus(name); taken {
			name = fmt.Sprintf("%s (%s)", name, route.Id)
		}

		roundtrip := len(stops) > 1 && stops[0] == stops[len(stops)-1]
		manager.catalogue.AddBus(name, stops, roundtrip)
		summary.Buses++
	}
	return summary
}

// longestTripByRoute picks, per route id, the trip with the most stop times.
// The first trip wins a tie.
func longestTripByRoute(trips []gtfs.ScheduledTrip) map[string]*gtfs.ScheduledTrip {
	longest := make(map[string]*gtfs.ScheduledTrip)
	for i := range trips {
		trip := &trips[i]
		if trip.Route == nil {
			continue
		}
		if current, ok := longest[trip.Route.Id]; !ok || len(trip.StopTimes) > len(current.StopTimes) {
			longest[trip.Route.Id] = trip
		}
	}
	return longest
}

// tripStops lists the catalogue names of the trip's stops in stop sequence order.
func tripStops(trip *gtfs.ScheduledTrip, stopNames map[string]string) []string {
	stopTimes := make([]gtfs.ScheduledStopTime, len(trip.StopTimes))
	copy(stopTimes, trip.StopTimes)
	sort.SliceStable(stopTimes, func(i, j int) bool {
		return stopTimes[i].StopSequence < stopTimes[j].StopSequence
	})

	names := make([]string, 0, len(stopTimes))
	for _, st := range stopTimes {
		if st.Stop == nil {
			continue
		}
		if name, ok := stopNames[st.Stop.Id]; ok {
			names = append(names, name)
		}
	}
	return names
}
