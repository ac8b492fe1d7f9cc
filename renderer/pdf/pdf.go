// Package pdf renders print jobs as multi-page PDF documents via the canvas
// PDF backend.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas"
	canvaspdf "github.com/tdewolff/canvas/renderers/pdf"

	"github.com/superlaser97/label-craft/renderer"
)

// Renderer writes one PDF page per job page, placing each label image at
// its computed cell origin.
type Renderer struct {
	Title   string
	Creator string
}

var _ renderer.Renderer = (*Renderer)(nil)

// New returns a PDF renderer with optional document metadata.
func New(title string) *Renderer {
	return &Renderer{Title: title, Creator: "label-craft"}
}

// Render assembles the job into PDF bytes.
func (r *Renderer) Render(job *renderer.Job) ([]byte, error) {
	if job == nil || len(job.Pages) == 0 {
		return nil, fmt.Errorf("empty print job")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	l := job.Layout

	var buf bytes.Buffer
	writer := canvaspdf.New(&buf, l.PageW, l.PageH, nil)
	writer.SetInfo(r.Title, "", "", "", r.Creator)
	for p, cells := range job.Pages {
		if p > 0 {
			writer.NewPage(l.PageW, l.PageH)
		}
		c := canvas.New(l.PageW, l.PageH)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, matching the layout math

		for cell, idx := range cells {
			img := job.Images[idx]
			if img == nil {
				continue
			}
			row := cell / l.Cols
			col := cell % l.Cols
			x, y := l.CellOrigin(row, col)
			dpmm := float64(img.Bounds().Dx()) / l.LabelW
			if dpmm <= 0 {
				dpmm = 1
			}
			ctx.DrawImage(x, y, img, canvas.DPMM(dpmm))
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
