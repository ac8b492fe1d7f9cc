package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"

	"github.com/superlaser97/label-craft/template"
)

// Symbols are synthesized at a fixed high internal resolution and scaled
// down at draw time. Rendering big and displaying small keeps module edges
// crisp under arbitrary zoom and export densities; the constants are
// tunables, not contracts.
const (
	barcodeInternalW = 1200
	barcodeInternalH = 300
	qrInternalPx     = 400
)

// symbolCache memoizes synthesized rasters by (kind, payload, foreground).
// A color change produces a different key, forcing full re-synthesis: the
// foreground is baked into the raster, it is not a tint.
type symbolCache struct {
	mu sync.Mutex
	m  map[string]image.Image
}

func (c *symbolCache) get(key string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.m[key]
	return img, ok
}

func (c *symbolCache) put(key string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]image.Image{}
	}
	c.m[key] = img
}

// synthBarcode encodes payload as a Code128 symbol with the foreground
// baked in. The encoder appends the symbology checksum itself.
func synthBarcode(payload string, fg template.Color) (image.Image, error) {
	if payload == "" {
		// A linear encoder must never receive an empty string.
		payload = " "
	}
	bc, err := code128.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("code128 %q: %w", payload, err)
	}
	scaled, err := barcode.Scale(bc, barcodeInternalW, barcodeInternalH)
	if err != nil {
		return nil, fmt.Errorf("scale code128: %w", err)
	}
	return recolor(scaled, fg, 0), nil
}

// synthQr encodes payload as a QR symbol at the fixed internal resolution
// with at least one module of white quiet zone on every side.
func synthQr(payload string, fg template.Color) (image.Image, error) {
	if payload == "" {
		payload = " "
	}
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr %q: %w", payload, err)
	}
	modules := code.Bounds().Dx()
	scaled, err := barcode.Scale(code, qrInternalPx, qrInternalPx)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	quiet := qrInternalPx / modules
	if quiet < 1 {
		quiet = 1
	}
	return recolor(scaled, fg, quiet), nil
}

// recolor maps the encoder's dark modules onto the foreground color over a
// white background, adding a white border of the given pixel width.
func recolor(src image.Image, fg template.Color, border int) image.Image {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*border, b.Dy()+2*border))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	fgc := color.RGBA{R: uint8(fg.R), G: uint8(fg.G), B: uint8(fg.B), A: 0xff}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			// The encoder emits pure black and white; treat anything dark
			// as a module pixel.
			if r+g+bl < 3*0x8000 {
				out.Set(x-b.Min.X+border, y-b.Min.Y+border, fgc)
			}
		}
	}
	return out
}

// blankSymbol is the degraded output when an encoder rejects its payload:
// an all-white raster of the requested aspect, so one broken element never
// aborts the rest of the document.
func blankSymbol(w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return out
}
