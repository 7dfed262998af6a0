package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"transitcatalogue.dev/internal/svg"
)

var validate = validator.New()

var ErrPaddingTooLarge = errors.New("padding must be less than half of the smaller map side")

// Settings controls the map layout and palette.
type Settings struct {
	Width             float64
	Height            float64
	Padding           float64
	LineWidth         float64
	StopRadius        float64
	BusLabelFontSize  uint32
	BusLabelOffset    svg.Point
	StopLabelFontSize uint32
	StopLabelOffset   svg.Point
	UnderlayerColor   svg.Color
	UnderlayerWidth   float64
	ColorPalette      []svg.Color
}

// DefaultSettings is used when no render settings were supplied.
func DefaultSettings() Settings {
	return Settings{
		Width:             1200,
		Height:            1200,
		Padding:           50,
		LineWidth:         14,
		StopRadius:        5,
		BusLabelFontSize:  20,
		BusLabelOffset:    svg.Point{X: 7, Y: 15},
		StopLabelFontSize: 20,
		StopLabelOffset:   svg.Point{X: 7, Y: -3},
		UnderlayerColor:   svg.RGBA(255, 255, 255, 0.85),
		UnderlayerWidth:   3,
		ColorPalette:      []svg.Color{svg.NamedColor("green"), svg.RGB(255, 160, 0), svg.NamedColor("red")},
	}
}

type settingsDocument struct {
	Width             float64           `json:"width" validate:"gte=0,lte=100000"`
	Height            float64           `json:"height" validate:"gte=0,lte=100000"`
	Padding           float64           `json:"padding" validate:"gte=0"`
	LineWidth         float64           `json:"line_width" validate:"gte=0,lte=100000"`
	StopRadius        float64           `json:"stop_radius" validate:"gte=0,lte=100000"`
	BusLabelFontSize  int               `json:"bus_label_font_size" validate:"gte=0,lte=100000"`
	BusLabelOffset    [2]float64        `json:"bus_label_offset" validate:"dive,gte=-100000,lte=100000"`
	StopLabelFontSize int               `json:"stop_label_font_size" validate:"gte=0,lte=100000"`
	StopLabelOffset   [2]float64        `json:"stop_label_offset" validate:"dive,gte=-100000,lte=100000"`
	UnderlayerColor   json.RawMessage   `json:"underlayer_color"`
	UnderlayerWidth   float64           `json:"underlayer_width" validate:"gte=0,lte=100000"`
	ColorPalette      []json.RawMessage `json:"color_palette"`
}

// ParseSettings decodes and validates a render_settings object.
func ParseSettings(raw json.RawMessage) (Settings, error) {
	var doc settingsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Settings{}, fmt.Errorf("decoding render settings: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return Settings{}, fmt.Errorf("invalid render settings: %w", err)
	}
	if doc.Padding >= math.Min(doc.Width, doc.Height)/2 {
		return Settings{}, fmt.Errorf("invalid render settings: %w", ErrPaddingTooLarge)
	}

	underlayer, err := ParseColor(doc.UnderlayerColor)
	if err != nil {
		return Settings{}, fmt.Errorf("underlayer_color: %w", err)
	}

	palette := make([]svg.Color, 0, len(doc.ColorPalette))
	for i, raw := range doc.ColorPalette {
		c, err := ParseColor(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("color_palette[%d]: %w", i, err)
		}
		palette = append(palette, c)
	}

	return Settings{
		Width:             doc.Width,
		Height:            doc.Height,
		Padding:           doc.Padding,
		LineWidth:         doc.LineWidth,
		StopRadius:        doc.StopRadius,
		BusLabelFontSize:  uint32(doc.BusLabelFontSize),
		BusLabelOffset:    svg.Point{X: doc.BusLabelOffset[0], Y: doc.BusLabelOffset[1]},
		StopLabelFontSize: uint32(doc.StopLabelFontSize),
		StopLabelOffset:   svg.Point{X: doc.StopLabelOffset[0], Y: doc.StopLabelOffset[1]},
		UnderlayerColor:   underlayer,
		UnderlayerWidth:   doc.UnderlayerWidth,
		ColorPalette:      palette,
	}, nil
}

// ParseColor decodes a color given as a name, [r, g, b] or [r, g, b, opacity].
// Any other shape yields svg.NoneColor.
func ParseColor(raw json.RawMessage) (svg.Color, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return svg.NoneColor, nil
	}

	switch raw[0] {
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return svg.Color{}, fmt.Errorf("decoding color: %w", err)
		}
		return svg.NamedColor(name), nil
	case '[':
		var parts []float64
		if err := json.Unmarshal(raw, &parts); err != nil {
			return svg.Color{}, fmt.Errorf("decoding color: %w", err)
		}
		if len(parts) != 3 && len(parts) != 4 {
			return svg.NoneColor, nil
		}
		var rgb [3]uint8
		for i := range rgb {
			if parts[i] < 0 || parts[i] > 255 {
				return svg.Color{}, fmt.Errorf("color component %g out of range [0, 255]", parts[i])
			}
			rgb[i] = uint8(parts[i])
		}
		if len(parts) == 3 {
			return svg.RGB(rgb[0], rgb[1], rgb[2]), nil
		}
		if parts[3] < 0 || parts[3] > 1 {
			return svg.Color{}, fmt.Errorf("opacity %g out of range [0, 1]", parts[3])
		}
		return svg.RGBA(rgb[0], rgb[1], rgb[2], parts[3]), nil
	default:
		return svg.NoneColor, nil
	}
}
