package restapi

import (
	"net/http"

	"github.com/twpayne/go-polyline"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/models"
	"transitcatalogue.dev/internal/utils"
)

func (api *RestAPI) busesHandler(w http.ResponseWriter, r *http.Request) {
	buses := api.Manager.Buses()
	list := make([]models.BusSummary, 0, len(buses))
	for _, bus := range buses {
		list = append(list, models.BusSummary{
			ID:          bus.Name,
			Name:        bus.Name,
			IsRoundtrip: bus.IsRoundtrip,
			StopCount:   len(bus.Stops),
		})
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}

func (api *RestAPI) busHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateName(name); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	bus, stops, ok := api.Manager.FindBus(name)
	if !ok {
		api.notFoundResponse(w, r)
		return
	}

	info, err := api.Manager.BusInfo(name)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	references := models.NewEmptyReferences()
	stopIDs := make([]string, len(stops))
	for i, stop := range stops {
		stopIDs[i] = stop.Name
		references.AddStop(models.StopReference{ID: stop.Name, Lat: stop.Coordinates.Lat, Lon: stop.Coordinates.Lng})
	}

	path := busPath(stops, bus.IsRoundtrip)
	entry := models.Bus{
		ID:              bus.Name,
		Name:            bus.Name,
		IsRoundtrip:     bus.IsRoundtrip,
		StopCount:       info.StopCount,
		UniqueStopCount: info.UniqueStopCount,
		RouteLength:     info.RouteLength,
		Curvature:       info.Curvature,
		StopIDs:         stopIDs,
		Polyline: models.EncodedPolyline{
			Points: string(polyline.EncodeCoords(path)),
			Length: len(path),
		},
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}

// busPath returns the [lat, lon] points a bus visits. A linear bus returns
// along its stops, so its path is mirrored.
func busPath(stops []catalogue.Stop, isRoundtrip bool) [][]float64 {
	path := make([][]float64, 0, 2*len(stops))
	for _, stop := range stops {
		path = append(path, []float64{stop.Coordinates.Lat, stop.Coordinates.Lng})
	}
	if !isRoundtrip {
		for i := len(stops) - 2; i >= 0; i-- {
			path = append(path, []float64{stops[i].Coordinates.Lat, stops[i].Coordinates.Lng})
		}
	}
	return path
}
