package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/requests"
)

const maxStatRequestBody = 1 << 20

// statRequestsHandler answers a JSON array of stat requests with the
// same response array the catalogue command prints.
func (api *RestAPI) statRequestsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStatRequestBody)

	var statRequests []requests.StatRequest
	if err := json.NewDecoder(r.Body).Decode(&statRequests); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			api.errorResponse(w, r, http.StatusRequestEntityTooLarge, "request body too large", 2)
			return
		}
		api.badRequestResponse(w, r, "body must be a JSON array of stat requests")
		return
	}

	processor := requests.NewProcessor(api.Manager, api.Manager.RenderSettings(), logging.FromContext(r.Context()))
	responses, err := processor.Process(statRequests)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	setJSONResponseType(&w)
	if err := requests.WriteResponses(w, responses); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to write stat responses", err)
	}
}
