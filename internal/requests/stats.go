package requests

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/jsonbuilder"
	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/render"
	"transitcatalogue.dev/internal/router"
	"transitcatalogue.dev/internal/svg"
)

const (
	msgNotFound    = "not found"
	msgUnknownType = "unknown request type"
)

// Network answers the queries behind stat requests.
type Network interface {
	BusInfo(name string) (catalogue.BusInfo, error)
	BusesByStop(name string) ([]string, error)
	FindRoute(from, to string) (router.RouteInfo, error)
	RenderMap(settings render.Settings) *svg.Document
}

type Processor struct {
	network Network
	render  render.Settings
	logger  *slog.Logger
}

func NewProcessor(network Network, renderSettings render.Settings, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Processor{network: network, render: renderSettings, logger: logger}
}

// Process answers every request in order. A failing request produces an
// error_message entry; it never stops the remaining requests.
func (p *Processor) Process(reqs []StatRequest) (any, error) {
	b := jsonbuilder.New().StartArray()
	for _, req := range reqs {
		b.StartDict().Key("request_id").Value(req.ID)
		switch req.Type {
		case TypeBus:
			p.bus(b, req)
		case TypeStop:
			p.stop(b, req)
		case TypeMap:
			p.drawMap(b)
		case TypeRoute:
			p.route(b, req)
		default:
			b.Key("error_message").Value(msgUnknownType)
		}
		b.EndDict()
	}
	return b.EndArray().Build()
}

func (p *Processor) bus(b *jsonbuilder.Builder, req StatRequest) {
	info, err := p.network.BusInfo(req.Name)
	if err != nil {
		p.failed(b, req, err)
		return
	}
	b.Key("stop_count").Value(info.StopCount).
		Key("unique_stop_count").Value(info.UniqueStopCount).
		Key("route_length").Value(info.RouteLength).
		Key("curvature").Value(info.Curvature)
}

func (p *Processor) stop(b *jsonbuilder.Builder, req StatRequest) {
	buses, err := p.network.BusesByStop(req.Name)
	if err != nil {
		p.failed(b, req, err)
		return
	}
	b.Key("buses").StartArray()
	for _, name := range buses {
		b.Value(name)
	}
	b.EndArray()
}

func (p *Processor) drawMap(b *jsonbuilder.Builder) {
	b.Key("map").Value(p.network.RenderMap(p.render).String())
}

func (p *Processor) route(b *jsonbuilder.Builder, req StatRequest) {
	info, err := p.network.FindRoute(req.From, req.To)
	if err != nil {
		p.failed(b, req, err)
		return
	}

	b.Key("total_time").Value(info.TotalTime).Key("items").StartArray()
	for _, item := range info.Items {
		b.StartDict().Key("type").Value(item.Type.String())
		switch item.Type {
		case router.ItemWait:
			b.Key("stop_name").Value(item.StopName)
		case router.ItemBus:
			b.Key("bus").Value(item.BusName).Key("span_count").Value(item.SpanCount)
		}
		b.Key("time").Value(item.Time).EndDict()
	}
	b.EndArray()
}

func (p *Processor) failed(b *jsonbuilder.Builder, req StatRequest, err error) {
	if IsNotFound(err) {
		b.Key("error_message").Value(msgNotFound)
		return
	}
	logging.LogError(p.logger, "stat request failed", err,
		slog.Int("request_id", req.ID),
		slog.String("type", req.Type))
	b.Key("error_message").Value(err.Error())
}

// IsNotFound reports whether err means a stop, bus or route does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, router.ErrNotFound) ||
		errors.Is(err, router.ErrNoRoute) ||
		errors.Is(err, catalogue.ErrStopNotFound) ||
		errors.Is(err, catalogue.ErrBusNotFound)
}

// WriteResponses prints v as indented JSON. HTML escaping is off so map
// markup stays readable.
func WriteResponses(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
