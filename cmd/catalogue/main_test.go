package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/router"
)

const document = `{
	"base_requests": [
		{"type": "Bus", "name": "114", "stops": ["Morskoy vokzal", "Rivyerskiy most"], "is_roundtrip": false},
		{"type": "Stop", "name": "Rivyerskiy most", "latitude": 43.587795, "longitude": 39.716901, "road_distances": {"Morskoy vokzal": 850}},
		{"type": "Stop", "name": "Morskoy vokzal", "latitude": 43.581969, "longitude": 39.719848, "road_distances": {"Rivyerskiy most": 850}}
	],
	"routing_settings": {"bus_wait_time": 2, "bus_velocity": 30},
	"render_settings": {
		"width": 200, "height": 200, "padding": 30,
		"stop_radius": 5, "line_width": 14,
		"bus_label_font_size": 20, "bus_label_offset": [7, 15],
		"stop_label_font_size": 18, "stop_label_offset": [7, -3],
		"underlayer_color": [255, 255, 255, 0.85], "underlayer_width": 3,
		"color_palette": ["green", [255, 160, 0], "red"]
	},
	"stat_requests": [
		{"id": 1, "type": "Map"},
		{"id": 2, "type": "Stop", "name": "Rivyerskiy most"},
		{"id": 3, "type": "Route", "from": "Morskoy vokzal", "to": "Rivyerskiy most"},
		{"id": 4, "type": "Bus", "name": "114"},
		{"id": 5, "type": "Route", "from": "Morskoy vokzal", "to": "Nowhere"}
	]
}`

func TestRunFromStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run("", strings.NewReader(document), &out, logging.NewDiscardLogger()))

	assert.Contains(t, out.String(), `<svg`)
	assert.NotContains(t, out.String(), `\u003c`, "markup is printed unescaped")
	assert.True(t, strings.HasPrefix(out.String(), "[\n    {"))

	var responses []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &responses))
	require.Len(t, responses, 5)

	assert.Contains(t, responses[0]["map"], `<svg xmlns="http://www.w3.org/2000/svg" version="1.1">`)
	assert.Equal(t, []any{"114"}, responses[1]["buses"])
	// 2 minutes waiting, then 850 m at 30 km/h.
	assert.InDelta(t, 3.7, responses[2]["total_time"], 1e-9)
	assert.Equal(t, 3.0, responses[3]["stop_count"])
	assert.Equal(t, 1700.0, responses[3]["route_length"])
	assert.Equal(t, "not found", responses[4]["error_message"])
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(path, strings.NewReader("ignored"), &out, nil))
	assert.Contains(t, out.String(), `"request_id": 5`)
}

func TestRunErrors(t *testing.T) {
	t.Run("malformed document", func(t *testing.T) {
		err := run("", strings.NewReader(`{"base_requests": [`), &bytes.Buffer{}, nil)
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		err := run("", strings.NewReader(""), &bytes.Buffer{}, nil)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		err := run(filepath.Join(t.TempDir(), "nope.json"), nil, &bytes.Buffer{}, nil)
		assert.Error(t, err)
	})

	t.Run("invalid routing settings", func(t *testing.T) {
		doc := `{"base_requests": [], "routing_settings": {"bus_wait_time": 2, "bus_velocity": 0}}`
		err := run("", strings.NewReader(doc), &bytes.Buffer{}, nil)
		var cfgErr *router.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}
