// Package render draws the transit network as an SVG map.
package render

import (
	"sort"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/svg"
)

const labelFontFamily = "Verdana"

// MapRenderer draws, in layers: route lines, bus labels, stop circles and stop labels.
type MapRenderer struct {
	settings Settings
}

func NewMapRenderer(settings Settings) *MapRenderer {
	return &MapRenderer{settings: settings}
}

func (r *MapRenderer) Render(cat *catalogue.Catalogue) *svg.Document {
	buses := sortedBuses(cat)
	stops := servedStops(cat, buses)

	points := make([]catalogue.Coordinates, len(stops))
	for i, stop := range stops {
		points[i] = stop.Coordinates
	}
	projector := NewSphereProjector(points, r.settings.Width, r.settings.Height, r.settings.Padding)

	doc := &svg.Document{}
	r.drawRoutes(doc, cat, buses, projector)
	r.drawBusLabels(doc, cat, buses, projector)
	r.drawStopCircles(doc, stops, projector)
	r.drawStopLabels(doc, stops, projector)
	return doc
}

func (r *MapRenderer) paletteColor(i int) svg.Color {
	if len(r.settings.ColorPalette) == 0 {
		return svg.NoneColor
	}
	return r.settings.ColorPalette[i%len(r.settings.ColorPalette)]
}

// sortedBuses returns the buses with at least one stop, ordered by name.
func sortedBuses(cat *catalogue.Catalogue) []catalogue.Bus {
	var buses []catalogue.Bus
	for _, bus := range cat.Buses() {
		if len(bus.Stops) > 0 {
			buses = append(buses, bus)
		}
	}
	sort.Slice(buses, func(i, j int) bool { return buses[i].Name < buses[j].Name })
	return buses
}

// servedStops returns every stop visited by some bus, ordered by name.
func servedStops(cat *catalogue.Catalogue, buses []catalogue.Bus) []catalogue.Stop {
	seen := make(map[catalogue.StopID]bool)
	var stops []catalogue.Stop
	for _, bus := range buses {
		for _, id := range bus.Stops {
			if !seen[id] {
				seen[id] = true
				stops = append(stops, cat.Stop(id))
			}
		}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Name < stops[j].Name })
	return stops
}

func (r *MapRenderer) drawRoutes(doc *svg.Document, cat *catalogue.Catalogue, buses []catalogue.Bus, projector SphereProjector) {
	for i, bus := range buses {
		line := svg.Polyline{Style: svg.Style{
			Stroke:      r.paletteColor(i),
			Fill:        svg.NoneColor,
			StrokeWidth: r.settings.LineWidth,
			LineCap:     svg.LineCapRound,
			LineJoin:    svg.LineJoinRound,
		}}
		for _, id := range bus.Stops {
			line.Points = append(line.Points, projector.Project(cat.Stop(id).Coordinates))
		}
		if !bus.IsRoundtrip {
			for k := len(bus.Stops) - 2; k >= 0; k-- {
				line.Points = append(line.Points, projector.Project(cat.Stop(bus.Stops[k]).Coordinates))
			}
		}
		doc.Add(line)
	}
}

func (r *MapRenderer) drawBusLabels(doc *svg.Document, cat *catalogue.Catalogue, buses []catalogue.Bus, projector SphereProjector) {
	for i, bus := range buses {
		first, last := bus.Stops[0], bus.Stops[len(bus.Stops)-1]
		r.drawBusLabel(doc, bus.Name, projector.Project(cat.Stop(first).Coordinates), r.paletteColor(i))
		if !bus.IsRoundtrip && first != last {
			r.drawBusLabel(doc, bus.Name, projector.Project(cat.Stop(last).Coordinates), r.paletteColor(i))
		}
	}
}

func (r *MapRenderer) drawBusLabel(doc *svg.Document, name string, at svg.Point, color svg.Color) {
	label := svg.Text{
		Position:   at,
		Offset:     r.settings.BusLabelOffset,
		FontSize:   r.settings.BusLabelFontSize,
		FontFamily: labelFontFamily,
		FontWeight: "bold",
		Data:       name,
	}
	doc.Add(r.underlayer(label))
	label.Fill = color
	doc.Add(label)
}

func (r *MapRenderer) drawStopCircles(doc *svg.Document, stops []catalogue.Stop, projector SphereProjector) {
	for _, stop := range stops {
		doc.Add(svg.Circle{
			Center: projector.Project(stop.Coordinates),
			Radius: r.settings.StopRadius,
			Style:  svg.Style{Fill: svg.NamedColor("white")},
		})
	}
}

func (r *MapRenderer) drawStopLabels(doc *svg.Document, stops []catalogue.Stop, projector SphereProjector) {
	for _, stop := range stops {
		label := svg.Text{
			Position:   projector.Project(stop.Coordinates),
			Offset:     r.settings.StopLabelOffset,
			FontSize:   r.settings.StopLabelFontSize,
			FontFamily: labelFontFamily,
			Data:       stop.Name,
		}
		doc.Add(r.underlayer(label))
		label.Fill = svg.NamedColor("black")
		doc.Add(label)
	}
}

// underlayer returns a copy of label styled as its background halo.
func (r *MapRenderer) underlayer(label svg.Text) svg.Text {
	label.Style = svg.Style{
		Fill:        r.settings.UnderlayerColor,
		Stroke:      r.settings.UnderlayerColor,
		StrokeWidth: r.settings.UnderlayerWidth,
		LineCap:     svg.LineCapRound,
		LineJoin:    svg.LineJoinRound,
	}
	return label
}
