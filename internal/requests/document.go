// Package requests reads the JSON input document and answers its stat requests.
package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/render"
	"transitcatalogue.dev/internal/router"
)

const (
	TypeStop  = "Stop"
	TypeBus   = "Bus"
	TypeMap   = "Map"
	TypeRoute = "Route"
)

var ErrEmptyDocument = errors.New("empty input document")

// Document is the top-level input object. Every section is optional.
type Document struct {
	BaseRequests    []BaseRequest    `json:"base_requests"`
	RoutingSettings *router.Settings `json:"routing_settings"`
	RenderSettings  json.RawMessage  `json:"render_settings"`
	StatRequests    []StatRequest    `json:"stat_requests"`
}

// BaseRequest describes either a stop (Type "Stop") or a bus (Type "Bus").
type BaseRequest struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	RoadDistances map[string]int `json:"road_distances"`
	Stops         []string       `json:"stops"`
	IsRoundtrip   bool           `json:"is_roundtrip"`
}

type StatRequest struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Decode reads one document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decoding input document: %w", err)
	}
	return &doc, nil
}

// RenderSettingsOrDefault parses the render_settings section, falling back to
// render.DefaultSettings when the document has none.
func (d *Document) RenderSettingsOrDefault() (render.Settings, error) {
	if len(d.RenderSettings) == 0 || string(d.RenderSettings) == "null" {
		return render.DefaultSettings(), nil
	}
	return render.ParseSettings(d.RenderSettings)
}

// Populator receives the network described by base requests.
type Populator interface {
	AddStop(name string, coords catalogue.Coordinates) catalogue.StopID
	SetDistance(from, to string, meters int) error
	AddBus(name string, stops []string, isRoundtrip bool) catalogue.BusID
}

// ApplyBaseRequests adds all stops first, then their road distances, then
// buses, so that requests may reference stops declared later in the list.
// Requests of any other type are ignored.
func ApplyBaseRequests(p Populator, reqs []BaseRequest) error {
	var withDistances, buses []BaseRequest
	for _, req := range reqs {
		switch req.Type {
		case TypeStop:
			p.AddStop(req.Name, catalogue.Coordinates{Lat: req.Latitude, Lng: req.Longitude})
			if len(req.RoadDistances) > 0 {
				withDistances = append(withDistances, req)
			}
		case TypeBus:
			buses = append(buses, req)
		}
	}

	for _, req := range withDistances {
		targets := make([]string, 0, len(req.RoadDistances))
		for to := range req.RoadDistances {
			targets = append(targets, to)
		}
		sort.Strings(targets)

		for _, to := range targets {
			if err := p.SetDistance(req.Name, to, req.RoadDistances[to]); err != nil {
				return fmt.Errorf("road distance %q -> %q: %w", req.Name, to, err)
			}
		}
	}

	for _, req := range buses {
		p.AddBus(req.Name, req.Stops, req.IsRoundtrip)
	}
	return nil
}
