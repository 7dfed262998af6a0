package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrentTimeData(t *testing.T) {
	now := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		now          time.Time
		graphBuilt   time.Time
		wantBuilt    int64
		wantAge      int64
		wantReadable string
	}{
		{"no graph yet", now, time.Time{}, 0, 0, ""},
		{"graph built earlier", now, now.Add(-90 * time.Second), now.Add(-90 * time.Second).UnixMilli(), 90, "2025-05-03T11:58:30Z"},
		{"graph built this instant", now, now, now.UnixMilli(), 0, "2025-05-03T12:00:00Z"},
		{"local clock", now.In(time.Local), time.Time{}, 0, 0, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := NewCurrentTimeData(tc.now, tc.graphBuilt)
			assert.Equal(t, tc.now.UnixMilli(), data.Entry.Time)
			assert.Equal(t, tc.now.Format(time.RFC3339), data.Entry.ReadableTime)
			assert.Equal(t, tc.wantBuilt, data.Entry.GraphBuiltTime)
			assert.Equal(t, tc.wantReadable, data.Entry.ReadableGraphBuiltTime)
			assert.Equal(t, tc.wantAge, data.Entry.GraphAgeSeconds)
			assert.Empty(t, data.References.Buses)
			assert.NotNil(t, data.References.Stops)
		})
	}
}

func TestCurrentTimeOmitsGraphFieldsBeforeBuild(t *testing.T) {
	b, err := json.Marshal(NewCurrentTimeData(time.UnixMilli(1746324484528).UTC(), time.Time{}).Entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"readableTime": "2025-05-04T02:08:04Z", "time": 1746324484528}`, string(b))
}
