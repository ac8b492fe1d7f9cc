package template

import (
	"fmt"
	"strconv"
	"strings"
)

// The scene graph is a flat ordered list of renderable objects. Each kind is
// a closed variant with its own fields; binding state (dataKey) only exists
// on the kinds that can carry it. List position defines z-order, later means
// on top.

// Kind tags a renderable object variant.
type Kind string

const (
	KindStaticText Kind = "staticText"
	KindBoundText  Kind = "boundText"
	KindBarcode    Kind = "barcode"
	KindQrCode     Kind = "qrCode"
	KindImage      Kind = "image"
	KindRect       Kind = "rect"
	KindCircle     Kind = "circle"
	KindTriangle   Kind = "triangle"
	KindLine       Kind = "line"
)

// Object is one entry of the scene graph. Implementations are value records;
// mutation goes through the owning Engine, never through shared pointers.
type Object interface {
	Kind() Kind
	// Clone returns an independent deep copy.
	Clone() Object
	// normalize fills defaulted fields deterministically after decode.
	normalize()
}

// Color is an RGB triple in 0-255.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R&0xff, c.G&0xff, c.B&0xff)
}

// ParseColor accepts #rgb and #rrggbb forms.
func ParseColor(value string) (Color, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if !strings.HasPrefix(v, "#") {
		return Color{}, fmt.Errorf("unsupported color %q", value)
	}
	v = v[1:]
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return Color{}, fmt.Errorf("unsupported color %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("unsupported color %q", value)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

func cloneColor(c *Color) *Color {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Position is the top-left anchor in canvas pixels.
type Position struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Stroke holds outline paint shared by the shape kinds. StrokeUniform keeps
// the outline thickness constant under object scaling.
type Stroke struct {
	Stroke        *Color  `json:"stroke,omitempty"`
	StrokeWidth   float64 `json:"strokeWidth,omitempty"`
	StrokeUniform bool    `json:"strokeUniform,omitempty"`
}

func (s Stroke) clone() Stroke {
	s.Stroke = cloneColor(s.Stroke)
	return s
}

// TextStyle holds the attributes shared by the text kinds.
type TextStyle struct {
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
}

const (
	defaultFontSize  = 16
	defaultTextAlign = "left"
)

func (t *TextStyle) normalize() {
	if t.FontSize <= 0 {
		t.FontSize = defaultFontSize
	}
	if t.TextAlign == "" {
		t.TextAlign = defaultTextAlign
	}
}

// StaticText is a literal text element, unaffected by data records.
type StaticText struct {
	Position
	TextStyle
	Text string `json:"text"`
	Fill *Color `json:"fill,omitempty"`
}

func (o *StaticText) Kind() Kind { return KindStaticText }
func (o *StaticText) Clone() Object {
	cp := *o
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *StaticText) normalize() { o.TextStyle.normalize() }

// BoundText substitutes the value of a data-record field at render time.
type BoundText struct {
	Position
	TextStyle
	DataKey string `json:"dataKey"`
	Fill    *Color `json:"fill,omitempty"`
}

func (o *BoundText) Kind() Kind { return KindBoundText }
func (o *BoundText) Clone() Object {
	cp := *o
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *BoundText) normalize() { o.TextStyle.normalize() }

// Barcode renders its resolved payload as a Code128 symbol. The raster is
// regenerated from (payload, fill) at render time and never persisted.
type Barcode struct {
	Position
	DataKey string  `json:"dataKey"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Fill    *Color  `json:"fill,omitempty"`
}

const (
	defaultBarcodeWidth  = 200
	defaultBarcodeHeight = 60
	defaultQrSize        = 120
)

func (o *Barcode) Kind() Kind { return KindBarcode }
func (o *Barcode) Clone() Object {
	cp := *o
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *Barcode) normalize() {
	if o.Width <= 0 {
		o.Width = defaultBarcodeWidth
	}
	if o.Height <= 0 {
		o.Height = defaultBarcodeHeight
	}
}

// QrCode renders its resolved payload as a QR symbol.
type QrCode struct {
	Position
	DataKey string  `json:"dataKey"`
	Size    float64 `json:"size,omitempty"`
	Fill    *Color  `json:"fill,omitempty"`
}

func (o *QrCode) Kind() Kind { return KindQrCode }
func (o *QrCode) Clone() Object {
	cp := *o
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *QrCode) normalize() {
	if o.Size <= 0 {
		o.Size = defaultQrSize
	}
}

// Image references external bitmap content by an opaque source: a file path
// or a data: URI.
type Image struct {
	Position
	Src    string  `json:"src"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

func (o *Image) Kind() Kind { return KindImage }
func (o *Image) Clone() Object {
	cp := *o
	return &cp
}
func (o *Image) normalize() {}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Position
	Stroke
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   *Color  `json:"fill,omitempty"`
}

func (o *Rect) Kind() Kind { return KindRect }
func (o *Rect) Clone() Object {
	cp := *o
	cp.Stroke = o.Stroke.clone()
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *Rect) normalize() {}

// Circle is positioned by its bounding-box top-left, matching the other
// kinds, with the radius giving its extent.
type Circle struct {
	Position
	Stroke
	Radius float64 `json:"radius"`
	Fill   *Color  `json:"fill,omitempty"`
}

func (o *Circle) Kind() Kind { return KindCircle }
func (o *Circle) Clone() Object {
	cp := *o
	cp.Stroke = o.Stroke.clone()
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *Circle) normalize() {}

// Triangle is an isosceles triangle inscribed in its width x height box,
// apex at top center.
type Triangle struct {
	Position
	Stroke
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   *Color  `json:"fill,omitempty"`
}

func (o *Triangle) Kind() Kind { return KindTriangle }
func (o *Triangle) Clone() Object {
	cp := *o
	cp.Stroke = o.Stroke.clone()
	cp.Fill = cloneColor(o.Fill)
	return &cp
}
func (o *Triangle) normalize() {}

// Line is a segment between two absolute canvas points.
type Line struct {
	Stroke
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (o *Line) Kind() Kind { return KindLine }
func (o *Line) Clone() Object {
	cp := *o
	cp.Stroke = o.Stroke.clone()
	return &cp
}
func (o *Line) normalize() {}

// DataKeyOf returns the binding key of an object, if the kind carries one.
func DataKeyOf(o Object) (string, bool) {
	switch t := o.(type) {
	case *BoundText:
		return t.DataKey, true
	case *Barcode:
		return t.DataKey, true
	case *QrCode:
		return t.DataKey, true
	default:
		return "", false
	}
}
