package restapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"transitcatalogue.dev/internal/models"
	"transitcatalogue.dev/internal/svg"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

// sendSVG renders doc in full before writing so a render failure can still
// become an error response.
func (api *RestAPI) sendSVG(w http.ResponseWriter, r *http.Request, doc *svg.Document) {
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
