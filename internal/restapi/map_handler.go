package restapi

import "net/http"

func (api *RestAPI) mapHandler(w http.ResponseWriter, r *http.Request) {
	doc := api.Manager.RenderMap(api.Manager.RenderSettings())
	api.sendSVG(w, r, doc)
}
