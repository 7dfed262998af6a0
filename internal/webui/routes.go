// Package webui serves a plain HTML page that dumps the loaded network for
// debugging. It is not mounted in production.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"transitcatalogue.dev/internal/app"
)

type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
