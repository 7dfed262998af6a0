package restapi

import (
	"errors"
	"net/http"

	"transitcatalogue.dev/internal/models"
	"transitcatalogue.dev/internal/requests"
	"transitcatalogue.dev/internal/router"
	"transitcatalogue.dev/internal/transit"
	"transitcatalogue.dev/internal/utils"
)

func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")

	if fieldErrors := utils.ValidateRouteParams(from, to); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	info, err := api.Manager.FindRoute(from, to)
	switch {
	case errors.Is(err, transit.ErrGraphNotBuilt):
		api.graphNotBuiltResponse(w, r)
		return
	case requests.IsNotFound(err):
		api.notFoundResponse(w, r)
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}

	references := models.NewEmptyReferences()
	for _, item := range info.Items {
		switch item.Type {
		case router.ItemWait:
			if stop, ok := api.Manager.FindStop(item.StopName); ok {
				references.AddStop(models.StopReference{ID: stop.Name, Lat: stop.Coordinates.Lat, Lon: stop.Coordinates.Lng})
			}
		case router.ItemBus:
			if bus, _, ok := api.Manager.FindBus(item.BusName); ok {
				references.AddBus(models.BusReference{ID: bus.Name, IsRoundtrip: bus.IsRoundtrip})
			}
		}
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NewItinerary(from, to, info), references))
}
