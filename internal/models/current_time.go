package models

import "time"

// CurrentTimeModel is the server clock together with the moment the routing
// graph now serving queries was built. The graph fields are omitted until a
// graph exists.
type CurrentTimeModel struct {
	ReadableTime           string `json:"readableTime"`
	Time                   int64  `json:"time"`
	GraphBuiltTime         int64  `json:"graphBuiltTime,omitempty"`
	ReadableGraphBuiltTime string `json:"readableGraphBuiltTime,omitempty"`
	GraphAgeSeconds        int64  `json:"graphAgeSeconds,omitempty"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// NewCurrentTimeData reports now and, unless graphBuilt is zero, the graph
// build time and its age in whole seconds.
func NewCurrentTimeData(now, graphBuilt time.Time) CurrentTimeData {
	entry := CurrentTimeModel{
		ReadableTime: now.Format(time.RFC3339),
		Time:         now.UnixMilli(),
	}
	if !graphBuilt.IsZero() {
		entry.GraphBuiltTime = graphBuilt.UnixMilli()
		entry.ReadableGraphBuiltTime = graphBuilt.Format(time.RFC3339)
		if age := now.Sub(graphBuilt); age > 0 {
			entry.GraphAgeSeconds = int64(age / time.Second)
		}
	}

	return CurrentTimeData{
		Entry:      entry,
		References: NewEmptyReferences(),
	}
}
