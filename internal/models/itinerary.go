package models

import "transitcatalogue.dev/internal/router"

// ItineraryItem is one step of an itinerary: a wait at a stop or a ride.
// Only the fields of its type are set.
type ItineraryItem struct {
	Type      string  `json:"type"`
	StopName  string  `json:"stopName,omitempty"`
	Bus       string  `json:"bus,omitempty"`
	SpanCount int     `json:"spanCount,omitempty"`
	Time      float64 `json:"time"`
}

type Itinerary struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	TotalTime float64         `json:"totalTime"`
	Items     []ItineraryItem `json:"items"`
}

func NewItinerary(from, to string, info router.RouteInfo) Itinerary {
	items := make([]ItineraryItem, 0, len(info.Items))
	for _, item := range info.Items {
		entry := ItineraryItem{Type: item.Type.String(), Time: item.Time}
		switch item.Type {
		case router.ItemWait:
			entry.StopName = item.StopName
		case router.ItemBus:
			entry.Bus = item.BusName
			entry.SpanCount = item.SpanCount
		}
		items = append(items, entry)
	}
	return Itinerary{
		From:      from,
		To:        to,
		TotalTime: info.TotalTime,
		Items:     items,
	}
}
