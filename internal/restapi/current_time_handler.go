package restapi

import (
	"net/http"
	"time"

	"transitcatalogue.dev/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	stats := api.Manager.Statistics()
	api.sendResponse(w, r, models.NewOKResponse(models.NewCurrentTimeData(time.Now(), stats.LastBuilt)))
}

func (api *RestAPI) statisticsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.Manager.Statistics(), models.NewEmptyReferences()))
}
