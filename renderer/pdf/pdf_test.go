package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/superlaser97/label-craft/renderer"
	"github.com/superlaser97/label-craft/tiling"
)

func testJob(t *testing.T, n int) *renderer.Job {
	t.Helper()
	layout, err := tiling.Compute(101.6, 50.8, tiling.Config{
		Rows: 2, Cols: 2, GapXMM: 3.175, GapYMM: 3.175,
		Paper: tiling.PaperLetter, Orientation: tiling.Portrait, AutoScale: true,
	})
	if err != nil {
		t.Fatalf("compute layout: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	images := make([]image.Image, n)
	for i := range images {
		images[i] = img
	}
	return &renderer.Job{Layout: layout, Pages: layout.Paginate(n), Images: images}
}

func TestRenderProducesMultiPagePDF(t *testing.T) {
	out, err := New("test labels").Render(testJob(t, 10))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	// 10 records on a 2x2 grid is three pages.
	if pages := bytes.Count(out, []byte("/Type /Page")); pages < 3 {
		t.Fatalf("expected at least 3 page objects, found %d", pages)
	}
}

func TestRenderRejectsBadJobs(t *testing.T) {
	if _, err := New("x").Render(nil); err == nil {
		t.Fatal("nil job accepted")
	}
	job := testJob(t, 4)
	job.Pages = [][]int{{0, 1, 2, 9}}
	if _, err := New("x").Render(job); err == nil {
		t.Fatal("out-of-range image index accepted")
	}
	job = testJob(t, 4)
	job.Pages = [][]int{{0, 1, 2, 3, 0}}
	if _, err := New("x").Render(job); err == nil {
		t.Fatal("overfull page accepted")
	}
}
