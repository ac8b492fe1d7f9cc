package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/superlaser97/label-craft/binding"
	"github.com/superlaser97/label-craft/fonts"
	"github.com/superlaser97/label-craft/geom"
	"github.com/superlaser97/label-craft/template"
)

const defaultStrokeWidth = 0.2 // mm, when an object has a stroke color but no width

const mmToPt = 72.0 / geom.MmPerIn

// Rasterize renders a whole document against one record into a label image
// at the given density (pixels per millimeter). The record may be nil for a
// static preview; bound fields then render their placeholder forms.
func (r *Renderer) Rasterize(doc *template.Document, rec binding.Record, dpmm float64) (image.Image, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if err := doc.Dimensions.Validate(); err != nil {
		return nil, err
	}
	if dpmm <= 0 {
		dpmm = geom.ReferenceDPI / geom.MmPerIn
	}
	wMM := doc.Dimensions.WidthMM()
	hMM := doc.Dimensions.HeightMM()

	c := canvas.New(wMM, hMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, matching canvas pixel coords

	// White label background.
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(0, 0, canvas.Rectangle(wMM, hMM))

	for i, o := range doc.Objects {
		if err := r.drawObject(ctx, o, rec); err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.Kind(), err)
		}
	}
	return rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace), nil
}

// pxToMM maps on-canvas pixel coordinates to millimeters.
func pxToMM(px float64) float64 { return geom.ToCanonical(px, geom.UnitPX) }

func (r *Renderer) drawObject(ctx *canvas.Context, o template.Object, rec binding.Record) error {
	switch t := o.(type) {
	case *template.StaticText:
		// Static text is literal; records never substitute into it.
		return r.drawText(ctx, t.Position, t.TextStyle, t.Fill, t.Text)
	case *template.BoundText:
		return r.drawText(ctx, t.Position, t.TextStyle, t.Fill, r.resolveText(t.DataKey, rec))
	case *template.Barcode:
		content := r.Content(t, rec, nil)
		return drawRaster(ctx, content.Image, pxToMM(t.Left), pxToMM(t.Top), pxToMM(t.Width), pxToMM(t.Height))
	case *template.QrCode:
		content := r.Content(t, rec, nil)
		return drawRaster(ctx, content.Image, pxToMM(t.Left), pxToMM(t.Top), pxToMM(t.Size), pxToMM(t.Size))
	case *template.Image:
		img, err := decodeImageSrc(t.Src)
		if err != nil {
			// Degrade like a failed symbol: skip the element, keep the label.
			r.log.Warnf("image %q: %v", truncateSrc(t.Src), err)
			return nil
		}
		w := t.Width
		if w <= 0 {
			w = float64(img.Bounds().Dx())
		}
		h := t.Height
		if h <= 0 {
			h = float64(img.Bounds().Dy())
		}
		return drawRaster(ctx, img, pxToMM(t.Left), pxToMM(t.Top), pxToMM(w), pxToMM(h))
	case *template.Rect:
		setPaint(ctx, t.Fill, t.Stroke)
		ctx.DrawPath(pxToMM(t.Left), pxToMM(t.Top), canvas.Rectangle(pxToMM(t.Width), pxToMM(t.Height)))
		return nil
	case *template.Circle:
		setPaint(ctx, t.Fill, t.Stroke)
		rad := pxToMM(t.Radius)
		ctx.DrawPath(pxToMM(t.Left), pxToMM(t.Top), canvas.Circle(rad))
		return nil
	case *template.Triangle:
		setPaint(ctx, t.Fill, t.Stroke)
		w := pxToMM(t.Width)
		h := pxToMM(t.Height)
		p := &canvas.Path{}
		p.MoveTo(w/2, 0)
		p.LineTo(w, h)
		p.LineTo(0, h)
		p.Close()
		ctx.DrawPath(pxToMM(t.Left), pxToMM(t.Top), p)
		return nil
	case *template.Line:
		setPaint(ctx, nil, t.Stroke)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(pxToMM(t.X2-t.X1), pxToMM(t.Y2-t.Y1))
		ctx.DrawPath(pxToMM(t.X1), pxToMM(t.Y1), p)
		return nil
	default:
		return fmt.Errorf("unknown object kind %q", o.Kind())
	}
}

func (r *Renderer) drawText(ctx *canvas.Context, pos template.Position, style template.TextStyle, fill *template.Color, text string) error {
	if text == "" {
		return nil
	}
	fam, err := fonts.Family(style.FontFamily)
	if err != nil {
		return err
	}
	col := black
	if fill != nil {
		col = *fill
	}
	// Font sizes are authored in canvas pixels; the face wants points.
	sizePt := pxToMM(style.FontSize) * mmToPt
	face := fam.Face(sizePt, colorOf(col), canvas.FontRegular, canvas.FontNormal)

	var align canvas.TextAlign
	anchorX := pxToMM(pos.Left)
	switch strings.ToLower(style.TextAlign) {
	case "center":
		align = canvas.Center
	case "right", "end":
		align = canvas.Right
	default:
		align = canvas.Left
	}

	// Baseline sits one ascent below the authored top edge.
	baseline := pxToMM(pos.Top) + face.Metrics().Ascent
	line := canvas.NewTextLine(face, text, align)
	ctx.DrawText(anchorX, baseline, line)
	return nil
}

// drawRaster places an image into a mm-sized box, deriving the density from
// the source resolution so high-res symbols stay crisp when scaled down.
func drawRaster(ctx *canvas.Context, img image.Image, xMM, yMM, wMM, hMM float64) error {
	if img == nil {
		return nil
	}
	if wMM <= 0 || hMM <= 0 {
		return fmt.Errorf("raster target %gx%gmm", wMM, hMM)
	}
	dpmm := float64(img.Bounds().Dx()) / wMM
	if dpmm <= 0 {
		dpmm = 1
	}
	// DrawImage honors the horizontal density; correct the aspect by
	// resampling when the target box distorts the source.
	srcAspect := float64(img.Bounds().Dy()) / float64(img.Bounds().Dx())
	dstAspect := hMM / wMM
	if diff := srcAspect - dstAspect; diff > 1e-9 || diff < -1e-9 {
		img = resampleToAspect(img, wMM, hMM, dpmm)
	}
	ctx.DrawImage(xMM, yMM, img, canvas.DPMM(dpmm))
	return nil
}

func setPaint(ctx *canvas.Context, fill *template.Color, stroke template.Stroke) {
	if fill != nil {
		ctx.SetFillColor(colorOf(*fill))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}
	if stroke.Stroke != nil {
		w := pxToMM(stroke.StrokeWidth)
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorOf(*stroke.Stroke))
		ctx.SetStrokeWidth(w)
	} else {
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeWidth(0)
	}
}

func colorOf(c template.Color) color.Color {
	return canvas.RGBA(uint8(c.R), uint8(c.G), uint8(c.B), 1.0)
}

// decodeImageSrc loads image content from an opaque source reference:
// either a data: URI with base64 payload or a file path.
func decodeImageSrc(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("empty image src")
	}
	if strings.HasPrefix(src, "data:") {
		comma := strings.IndexByte(src, ',')
		if comma < 0 {
			return nil, fmt.Errorf("malformed data uri")
		}
		raw, err := base64.StdEncoding.DecodeString(src[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("decode data uri: %w", err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// resampleToAspect rescales the source into the exact pixel box implied by
// the target size and density, used when the target box distorts the
// source aspect ratio.
func resampleToAspect(img image.Image, wMM, hMM, dpmm float64) image.Image {
	w := int(wMM*dpmm + 0.5)
	h := int(hMM*dpmm + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

func truncateSrc(src string) string {
	if len(src) > 48 {
		return src[:48] + "…"
	}
	return src
}
