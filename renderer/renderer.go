// Package renderer assembles rendered label images into the final print
// document. The core supplies exact mm placement for every image on every
// page; implementations only encode the output format.
package renderer

import (
	"fmt"
	"image"

	"github.com/superlaser97/label-craft/tiling"
)

// Job is a fully computed print job: the page geometry, the per-page cell
// assignment (indices into Images, row-major), and the rendered labels.
type Job struct {
	Layout tiling.Layout
	Pages  [][]int
	Images []image.Image
}

// Validate checks that every cell index references a rendered image and no
// page exceeds the grid capacity.
func (j *Job) Validate() error {
	per := j.Layout.LabelsPerPage()
	if per < 1 {
		return fmt.Errorf("empty grid")
	}
	for p, cells := range j.Pages {
		if len(cells) > per {
			return fmt.Errorf("page %d holds %d cells, grid capacity is %d", p, len(cells), per)
		}
		for _, idx := range cells {
			if idx < 0 || idx >= len(j.Images) {
				return fmt.Errorf("page %d references image %d of %d", p, idx, len(j.Images))
			}
		}
	}
	return nil
}

// Renderer writes a print job as final document bytes, for example a PDF.
type Renderer interface {
	Render(job *Job) ([]byte, error)
}
