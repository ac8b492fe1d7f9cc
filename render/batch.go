package render

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/superlaser97/label-craft/binding"
	"github.com/superlaser97/label-craft/template"
)

// RenderBatch rasterizes the document once per record, in parallel across a
// bounded worker pool. Records share only read-only template data, so the
// per-record work is independent; the returned slice preserves record order
// regardless of completion order, since page and cell assignment downstream
// depend on it. A canceled context abandons the batch; partial work is
// discarded and the caller's document snapshot is untouched.
func (r *Renderer) RenderBatch(ctx context.Context, doc *template.Document, records []binding.Record, dpmm float64, workers int) ([]image.Image, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if len(records) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(records) {
		workers = len(records)
	}

	out := make([]image.Image, len(records))
	errs := make([]error, len(records))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				img, err := r.Rasterize(doc, records[i], dpmm)
				out[i] = img
				errs[i] = err
			}
		}()
	}

feed:
	for i := range records {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return out, nil
}

// RenderStatic rasterizes the template once with no record bound, for the
// single-page static preview mode.
func (r *Renderer) RenderStatic(doc *template.Document, dpmm float64) (image.Image, error) {
	return r.Rasterize(doc, nil, dpmm)
}
