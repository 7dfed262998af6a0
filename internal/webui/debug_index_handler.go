package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")
	manager := webUI.Manager

	var data interface{}
	var title string

	switch dataType {
	case "stops":
		data = manager.Stops()
		title = "Network - Stops"
	case "buses":
		data = manager.Buses()
		title = "Network - Buses"
	case "statistics":
		data = manager.Statistics()
		title = "Network - Statistics"
	case "routing_settings":
		data = valueOrError(manager.RoutingSettings())
		title = "Routing - Settings"
	case "travel_edges":
		data = valueOrError(manager.TravelEdges())
		title = "Routing - Travel Edges"
	case "render_settings":
		data = manager.RenderSettings()
		title = "Map - Render Settings"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stops, buses, statistics, routing_settings, travel_edges, render_settings.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}

func valueOrError[T any](v T, err error) interface{} {
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return v
}
