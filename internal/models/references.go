package models

// ReferencesModel carries the stops and buses an entry or list mentions by name.
type ReferencesModel struct {
	Buses []BusReference  `json:"buses"`
	Stops []StopReference `json:"stops"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Buses: []BusReference{},
		Stops: []StopReference{},
	}
}

type BusReference struct {
	ID          string `json:"id"`
	IsRoundtrip bool   `json:"isRoundtrip"`
}

type StopReference struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (r *ReferencesModel) AddBus(ref BusReference) {
	for _, existing := range r.Buses {
		if existing.ID == ref.ID {
			return
		}
	}
	r.Buses = append(r.Buses, ref)
}

func (r *ReferencesModel) AddStop(ref StopReference) {
	for _, existing := range r.Stops {
		if existing.ID == ref.ID {
			return
		}
	}
	r.Stops = append(r.Stops, ref)
}
