package models

// Stop is a stop as listed by stops.json.
type Stop struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Buses []string `json:"buses"`
}

func NewStop(name string, lat, lon float64, buses []string) Stop {
	if buses == nil {
		buses = []string{}
	}
	return Stop{
		ID:    name,
		Name:  name,
		Lat:   lat,
		Lon:   lon,
		Buses: buses,
	}
}

// Departure is a bus leaving a stop towards its next stop on the route.
// Direction is an 8-point compass heading, empty when the next stop shares
// the same coordinates.
type Departure struct {
	Bus       string `json:"bus"`
	NextStop  string `json:"nextStop"`
	Direction string `json:"direction"`
}

type StopEntry struct {
	Stop
	Departures []Departure `json:"departures"`
}
