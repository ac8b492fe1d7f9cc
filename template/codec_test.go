package template

import (
	"strings"
	"testing"

	"github.com/superlaser97/label-craft/geom"
)

func sampleObjects() ObjectList {
	red := &Color{R: 200, G: 16, B: 16}
	return ObjectList{
		&Rect{Position: Position{Left: 4, Top: 4}, Width: 120, Height: 60,
			Stroke: Stroke{Stroke: &Color{}, StrokeWidth: 2, StrokeUniform: true}, Fill: red},
		&StaticText{Position: Position{Left: 10, Top: 10}, Text: "ACME Corp.",
			TextStyle: TextStyle{FontFamily: "sans", FontSize: 18, TextAlign: "center"}},
		&BoundText{Position: Position{Left: 10, Top: 40}, DataKey: "sku",
			TextStyle: TextStyle{FontSize: 12, TextAlign: "left"}},
		&Barcode{Position: Position{Left: 10, Top: 60}, DataKey: "sku", Width: 180, Height: 50, Fill: red},
		&QrCode{Position: Position{Left: 200, Top: 10}, DataKey: "url", Size: 90},
		&Circle{Position: Position{Left: 250, Top: 120}, Radius: 20,
			Stroke: Stroke{Stroke: &Color{B: 255}, StrokeWidth: 1}},
		&Triangle{Position: Position{Left: 30, Top: 120}, Width: 40, Height: 30, Fill: &Color{G: 128}},
		&Line{X1: 0, Y1: 150, X2: 300, Y2: 150, Stroke: Stroke{Stroke: &Color{}, StrokeWidth: 1}},
		&Image{Position: Position{Left: 150, Top: 100}, Src: "logo.png", Width: 64, Height: 64},
	}
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument("shipping", geom.Dimensions{Width: 101.6, Height: 50.8, Unit: geom.UnitMM})
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	doc.Objects = sampleObjects()
	return doc
}

// TestObjectSerializationIdempotent checks that encode(decode(encode(o)))
// equals encode(o) for every kind once defaults are normalized.
func TestObjectSerializationIdempotent(t *testing.T) {
	for _, o := range sampleObjects() {
		o.normalize()
		first, err := MarshalObject(o)
		if err != nil {
			t.Fatalf("%s: marshal: %v", o.Kind(), err)
		}
		decoded, err := UnmarshalObject(first)
		if err != nil {
			t.Fatalf("%s: unmarshal: %v", o.Kind(), err)
		}
		second, err := MarshalObject(decoded)
		if err != nil {
			t.Fatalf("%s: remarshal: %v", o.Kind(), err)
		}
		if string(first) != string(second) {
			t.Fatalf("%s: serialization not idempotent:\n  %s\n  %s", o.Kind(), first, second)
		}
	}
}

// TestUnmarshalDefaulting verifies that fields absent in older documents
// get deterministic defaults.
func TestUnmarshalDefaulting(t *testing.T) {
	o, err := UnmarshalObject([]byte(`{"kind":"staticText","left":5,"top":6,"text":"hi"}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	txt, ok := o.(*StaticText)
	if !ok {
		t.Fatalf("expected *StaticText, got %T", o)
	}
	if txt.FontSize != defaultFontSize {
		t.Fatalf("fontSize default: want %d, got %g", defaultFontSize, txt.FontSize)
	}
	if txt.TextAlign != defaultTextAlign {
		t.Fatalf("textAlign default: want %q, got %q", defaultTextAlign, txt.TextAlign)
	}

	bc, err := UnmarshalObject([]byte(`{"kind":"barcode","left":0,"top":0,"dataKey":"sku"}`))
	if err != nil {
		t.Fatalf("unmarshal barcode: %v", err)
	}
	if b := bc.(*Barcode); b.Width != defaultBarcodeWidth || b.Height != defaultBarcodeHeight {
		t.Fatalf("barcode defaults: got %gx%g", b.Width, b.Height)
	}

	// Missing strokeWidth stays 0, not an error.
	rc, err := UnmarshalObject([]byte(`{"kind":"rect","left":1,"top":1,"width":10,"height":10}`))
	if err != nil {
		t.Fatalf("unmarshal rect: %v", err)
	}
	if rc.(*Rect).StrokeWidth != 0 {
		t.Fatalf("strokeWidth default: want 0, got %g", rc.(*Rect).StrokeWidth)
	}
}

func TestUnmarshalUnknownKind(t *testing.T) {
	if _, err := UnmarshalObject([]byte(`{"kind":"hologram"}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

// TestDocumentRoundTripPreservesOrder asserts z-order (list position)
// survives encode/decode exactly.
func TestDocumentRoundTripPreservesOrder(t *testing.T) {
	doc := sampleDocument(t)
	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back.Objects) != len(doc.Objects) {
		t.Fatalf("object count: want %d, got %d", len(doc.Objects), len(back.Objects))
	}
	for i := range doc.Objects {
		if back.Objects[i].Kind() != doc.Objects[i].Kind() {
			t.Fatalf("z-order broken at %d: want %s, got %s",
				i, doc.Objects[i].Kind(), back.Objects[i].Kind())
		}
	}
	// Binding metadata survives.
	if back.Objects[2].(*BoundText).DataKey != "sku" {
		t.Fatalf("boundText dataKey lost")
	}
	if back.Objects[3].(*Barcode).DataKey != "sku" {
		t.Fatalf("barcode dataKey lost")
	}
	if back.Objects[4].(*QrCode).DataKey != "url" {
		t.Fatalf("qr dataKey lost")
	}
}

func TestDecodeDocumentRejectsBadInput(t *testing.T) {
	cases := []string{
		`{`,
		`{"templateName":"x","dimensions":{"width":0,"height":10,"unit":"mm"},"objects":[]}`,
		`{"templateName":"x","dimensions":{"width":10,"height":10,"unit":"parsec"},"objects":[]}`,
		`{"templateName":"x","dimensions":{"width":10,"height":10,"unit":"mm"},"objects":[{"kind":"warp"}]}`,
	}
	for _, c := range cases {
		if _, err := DecodeDocument([]byte(c)); err == nil {
			t.Fatalf("expected decode error for %s", c)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#C81010")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (Color{R: 200, G: 16, B: 16}) {
		t.Fatalf("parse #C81010: got %+v", c)
	}
	short, err := ParseColor("#f0a")
	if err != nil {
		t.Fatalf("parse short: %v", err)
	}
	if short != (Color{R: 255, G: 0, B: 170}) {
		t.Fatalf("parse #f0a: got %+v", short)
	}
	if !strings.EqualFold(c.Hex(), "#c81010") {
		t.Fatalf("hex round trip: got %s", c.Hex())
	}
	if _, err := ParseColor("red"); err == nil {
		t.Fatal("expected error for named color")
	}
}
