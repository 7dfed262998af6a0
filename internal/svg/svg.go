// Package svg writes the small subset of SVG 1.1 used by the network map.
package svg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Point struct {
	X, Y float64
}

// Color is an SVG paint value. The zero value leaves the attribute unset.
type Color struct {
	value string
}

// NoneColor paints nothing.
var NoneColor = Color{value: "none"}

func NamedColor(name string) Color {
	return Color{value: name}
}

func RGB(r, g, b uint8) Color {
	return Color{value: fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)}
}

func RGBA(r, g, b uint8, opacity float64) Color {
	return Color{value: fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, formatNumber(opacity))}
}

func (c Color) IsSet() bool {
	return c.value != ""
}

func (c Color) String() string {
	if c.value == "" {
		return "none"
	}
	return c.value
}

type LineCap uint8

const (
	LineCapButt LineCap = iota + 1
	LineCapRound
	LineCapSquare
)

func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return ""
	}
}

type LineJoin uint8

const (
	LineJoinArcs LineJoin = iota + 1
	LineJoinBevel
	LineJoinMiter
	LineJoinMiterClip
	LineJoinRound
)

func (j LineJoin) String() string {
	switch j {
	case LineJoinArcs:
		return "arcs"
	case LineJoinBevel:
		return "bevel"
	case LineJoinMiter:
		return "miter"
	case LineJoinMiterClip:
		return "miter-clip"
	case LineJoinRound:
		return "round"
	default:
		return ""
	}
}

// Style holds the shared presentation attributes. Zero fields are not written.
type Style struct {
	Fill        Color
	Stroke      Color
	StrokeWidth float64
	LineCap     LineCap
	LineJoin    LineJoin
}

func (s Style) writeAttrs(w *bufio.Writer) {
	if s.Fill.IsSet() {
		fmt.Fprintf(w, ` fill="%s"`, s.Fill)
	}
	if s.Stroke.IsSet() {
		fmt.Fprintf(w, ` stroke="%s"`, s.Stroke)
	}
	if s.StrokeWidth != 0 {
		fmt.Fprintf(w, ` stroke-width="%s"`, formatNumber(s.StrokeWidth))
	}
	if s.LineCap != 0 {
		fmt.Fprintf(w, ` stroke-linecap="%s"`, s.LineCap)
	}
	if s.LineJoin != 0 {
		fmt.Fprintf(w, ` stroke-linejoin="%s"`, s.LineJoin)
	}
}

// Element is anything a Document can hold.
type Element interface {
	writeSVG(w *bufio.Writer)
}

type Circle struct {
	Center Point
	Radius float64
	Style
}

func (c Circle) writeSVG(w *bufio.Writer) {
	fmt.Fprintf(w, `<circle cx="%s" cy="%s" r="%s"`,
		formatNumber(c.Center.X), formatNumber(c.Center.Y), formatNumber(c.Radius))
	c.writeAttrs(w)
	w.WriteString("/>")
}

type Polyline struct {
	Points []Point
	Style
}

func (p Polyline) writeSVG(w *bufio.Writer) {
	w.WriteString(`<polyline points="`)
	for i, pt := range p.Points {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(formatNumber(pt.X))
		w.WriteByte(',')
		w.WriteString(formatNumber(pt.Y))
	}
	w.WriteByte('"')
	p.writeAttrs(w)
	w.WriteString(" />")
}

type Text struct {
	Position   Point
	Offset     Point
	FontSize   uint32
	FontFamily string
	FontWeight string
	Data       string
	Style
}

var textEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`"`, "&quot;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
)

func (t Text) writeSVG(w *bufio.Writer) {
	fmt.Fprintf(w, `<text x="%s" y="%s" dx="%s" dy="%s" font-size="%d"`,
		formatNumber(t.Position.X), formatNumber(t.Position.Y),
		formatNumber(t.Offset.X), formatNumber(t.Offset.Y), t.FontSize)
	if t.FontFamily != "" {
		fmt.Fprintf(w, ` font-family="%s"`, t.FontFamily)
	}
	if t.FontWeight != "" {
		fmt.Fprintf(w, ` font-weight="%s"`, t.FontWeight)
	}
	t.writeAttrs(w)
	w.WriteByte('>')
	textEscaper.WriteString(w, t.Data)
	w.WriteString("</text>")
}

// Document is an ordered list of elements; later elements paint over earlier ones.
type Document struct {
	elements []Element
}

func (d *Document) Add(e Element) {
	d.elements = append(d.elements, e)
}

func (d *Document) Len() int {
	return len(d.elements)
}

func (d *Document) Render(out io.Writer) error {
	w := bufio.NewWriter(out)
	w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n")
	w.WriteString("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n")
	for _, e := range d.elements {
		e.writeSVG(w)
		w.WriteByte('\n')
	}
	w.WriteString("</svg>")
	return w.Flush()
}

// String renders the document into a string.
func (d *Document) String() string {
	var sb strings.Builder
	_ = d.Render(&sb)
	return sb.String()
}

// formatNumber prints up to six significant digits, the way SVG consumers
// expect coordinates.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
