package models

// EncodedPolyline is a bus path in Google's encoded polyline format.
type EncodedPolyline struct {
	Points string `json:"points"`
	Length int    `json:"length"`
}

type Bus struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	IsRoundtrip     bool            `json:"isRoundtrip"`
	StopCount       int             `json:"stopCount"`
	UniqueStopCount int             `json:"uniqueStopCount"`
	RouteLength     float64         `json:"routeLength"`
	Curvature       float64         `json:"curvature"`
	StopIDs         []string        `json:"stopIds"`
	Polyline        EncodedPolyline `json:"polyline"`
}

type BusSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsRoundtrip bool   `json:"isRoundtrip"`
	StopCount   int    `json:"stopCount"`
}
