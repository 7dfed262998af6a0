package restapi

import (
	"net/http"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/models"
	"transitcatalogue.dev/internal/utils"
)

func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	stops := api.Manager.Stops()
	list := make([]models.Stop, 0, len(stops))
	for _, stop := range stops {
		buses, err := api.Manager.BusesByStop(stop.Name)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		list = append(list, models.NewStop(stop.Name, stop.Coordinates.Lat, stop.Coordinates.Lng, buses))
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences()))
}

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateName(name); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	stop, ok := api.Manager.FindStop(name)
	if !ok {
		api.notFoundResponse(w, r)
		return
	}

	buses, err := api.Manager.BusesByStop(name)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	references := models.NewEmptyReferences()
	entry := models.StopEntry{
		Stop:       models.NewStop(stop.Name, stop.Coordinates.Lat, stop.Coordinates.Lng, buses),
		Departures: []models.Departure{},
	}

	for _, busName := range buses {
		bus, busStops, ok := api.Manager.FindBus(busName)
		if !ok {
			continue
		}
		references.AddBus(models.BusReference{ID: bus.Name, IsRoundtrip: bus.IsRoundtrip})
		for _, next := range nextStops(stop.ID, busStops, bus.IsRoundtrip) {
			entry.Departures = append(entry.Departures, models.Departure{
				Bus:      bus.Name,
				NextStop: next.Name,
				Direction: utils.CompassDirection(
					stop.Coordinates.Lat, stop.Coordinates.Lng,
					next.Coordinates.Lat, next.Coordinates.Lng),
			})
			references.AddStop(models.StopReference{ID: next.Name, Lat: next.Coordinates.Lat, Lon: next.Coordinates.Lng})
		}
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}

// nextStops lists the distinct stops a bus reaches directly after leaving
// stop, in route order. A linear bus also travels its stops in reverse.
func nextStops(stop catalogue.StopID, route []catalogue.Stop, isRoundtrip bool) []catalogue.Stop {
	var next []catalogue.Stop
	seen := make(map[catalogue.StopID]bool)
	add := func(s catalogue.Stop) {
		if s.ID != stop && !seen[s.ID] {
			seen[s.ID] = true
			next = append(next, s)
		}
	}

	for i := 0; i+1 < len(route); i++ {
		if route[i].ID == stop {
			add(route[i+1])
		}
	}
	if !isRoundtrip {
		for i := len(route) - 1; i > 0; i-- {
			if route[i].ID == stop {
				add(route[i-1])
			}
		}
	}
	return next
}
