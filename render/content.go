// Package render turns template objects into concrete visual content for
// one data record: text substitution for the bound text kinds, Code128 and
// QR raster synthesis for the machine-readable kinds, and rasterization of
// whole documents into label images.
package render

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/superlaser97/label-craft/binding"
	"github.com/superlaser97/label-craft/template"
)

// ContentKind discriminates the visual content of a rendered object.
type ContentKind int

const (
	// ContentNone marks kinds drawn directly from their geometry (shapes).
	ContentNone ContentKind = iota
	ContentText
	ContentImage
)

// Content is the resolved visual content of one object against one record.
type Content struct {
	Kind  ContentKind
	Text  string
	Image image.Image
}

// Renderer resolves data bindings and synthesizes symbol rasters. It holds
// no document state and is safe for concurrent use across records.
type Renderer struct {
	log   *logrus.Logger
	cache symbolCache
}

// New returns a Renderer logging through the given logger; nil selects the
// standard logrus logger.
func New(log *logrus.Logger) *Renderer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{log: log}
}

// Content resolves one object against a record. A nil record renders the
// placeholder form of bound fields; a record missing the bound field does
// the same. Encoder rejections degrade to a blank raster with a logged
// warning. This never fails: one broken element must not block the rest of
// the label.
func (r *Renderer) Content(o template.Object, rec binding.Record, override *template.Color) Content {
	switch t := o.(type) {
	case *template.StaticText:
		return Content{Kind: ContentText, Text: t.Text}
	case *template.BoundText:
		return Content{Kind: ContentText, Text: r.resolveText(t.DataKey, rec)}
	case *template.Barcode:
		payload := r.resolvePayload(t.DataKey, rec)
		fg := pickColor(t.Fill, override)
		img, err := r.symbol(string(template.KindBarcode), payload, fg, func() (image.Image, error) {
			return synthBarcode(payload, fg)
		})
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"kind":    t.Kind(),
				"dataKey": t.DataKey,
				"payload": payload,
			}).Warnf("barcode encoding failed: %v", err)
			return Content{Kind: ContentImage, Image: blankSymbol(barcodeInternalW, barcodeInternalH)}
		}
		return Content{Kind: ContentImage, Image: img}
	case *template.QrCode:
		payload := r.resolvePayload(t.DataKey, rec)
		fg := pickColor(t.Fill, override)
		img, err := r.symbol(string(template.KindQrCode), payload, fg, func() (image.Image, error) {
			return synthQr(payload, fg)
		})
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"kind":    t.Kind(),
				"dataKey": t.DataKey,
				"payload": payload,
			}).Warnf("qr encoding failed: %v", err)
			return Content{Kind: ContentImage, Image: blankSymbol(qrInternalPx, qrInternalPx)}
		}
		return Content{Kind: ContentImage, Image: img}
	default:
		return Content{Kind: ContentNone}
	}
}

// resolveText renders a bound text field: the record value when present,
// otherwise the {{key}} placeholder form.
func (r *Renderer) resolveText(key string, rec binding.Record) string {
	if val, ok := binding.Resolve(rec, key); ok {
		return val
	}
	return binding.Placeholder(key)
}

// resolvePayload renders a bound symbol payload. Without data the payload
// is the placeholder form so a preview stays scannable as a demo; a key
// missing from the record degrades the same way.
func (r *Renderer) resolvePayload(key string, rec binding.Record) string {
	if val, ok := binding.Resolve(rec, key); ok {
		return val
	}
	return binding.Placeholder(key)
}

func (r *Renderer) symbol(kind, payload string, fg template.Color, synth func() (image.Image, error)) (image.Image, error) {
	key := kind + "|" + fg.Hex() + "|" + payload
	if img, ok := r.cache.get(key); ok {
		return img, nil
	}
	img, err := synth()
	if err != nil {
		return nil, err
	}
	r.cache.put(key, img)
	return img, nil
}

var black = template.Color{R: 0, G: 0, B: 0}

func pickColor(fill, override *template.Color) template.Color {
	if override != nil {
		return *override
	}
	if fill != nil {
		return *fill
	}
	return black
}
