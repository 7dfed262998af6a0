package render

import (
	"math"

	"transitcatalogue.dev/internal/catalogue"
	"transitcatalogue.dev/internal/svg"
)

const epsilon = 1e-6

func isZero(v float64) bool {
	return math.Abs(v) < epsilon
}

// SphereProjector maps coordinates onto a flat canvas, keeping the aspect
// ratio and fitting every given point inside the padded area.
type SphereProjector struct {
	padding float64
	minLng  float64
	maxLat  float64
	zoom    float64
}

func NewSphereProjector(points []catalogue.Coordinates, maxWidth, maxHeight, padding float64) SphereProjector {
	p := SphereProjector{padding: padding}
	if len(points) == 0 {
		return p
	}

	minLng, maxLng := points[0].Lng, points[0].Lng
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, pt := range points[1:] {
		minLng = math.Min(minLng, pt.Lng)
		maxLng = math.Max(maxLng, pt.Lng)
		minLat = math.Min(minLat, pt.Lat)
		maxLat = math.Max(maxLat, pt.Lat)
	}
	p.minLng, p.maxLat = minLng, maxLat

	widthZoom, hasWidth := 0.0, !isZero(maxLng-minLng)
	if hasWidth {
		widthZoom = (maxWidth - 2*padding) / (maxLng - minLng)
	}
	heightZoom, hasHeight := 0.0, !isZero(maxLat-minLat)
	if hasHeight {
		heightZoom = (maxHeight - 2*padding) / (maxLat - minLat)
	}

	switch {
	case hasWidth && hasHeight:
		p.zoom = math.Min(widthZoom, heightZoom)
	case hasWidth:
		p.zoom = widthZoom
	case hasHeight:
		p.zoom = heightZoom
	}
	return p
}

func (p SphereProjector) Project(c catalogue.Coordinates) svg.Point {
	return svg.Point{
		X: (c.Lng-p.minLng)*p.zoom + p.padding,
		Y: (p.maxLat-c.Lat)*p.zoom + p.padding,
	}
}
