package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/superlaser97/label-craft/binding"
	"github.com/superlaser97/label-craft/render"
	"github.com/superlaser97/label-craft/renderer"
	pdfrenderer "github.com/superlaser97/label-craft/renderer/pdf"
	"github.com/superlaser97/label-craft/template"
	"github.com/superlaser97/label-craft/tiling"
)

func main() {
	templatePath := flag.String("template", "", "template document JSON path")
	csvPath := flag.String("csv", "", "CSV dataset path (optional; omitted renders one static page)")
	output := flag.String("out", "output/labels.pdf", "PDF output path")
	paper := flag.String("paper", "A4", "paper size: A4, A5, Letter, Legal")
	orientation := flag.String("orientation", "portrait", "page orientation: portrait or landscape")
	rows := flag.Int("rows", 1, "label rows per page")
	cols := flag.Int("cols", 1, "label columns per page")
	gapX := flag.Float64("gap-x", 2, "horizontal gap between labels (mm)")
	gapY := flag.Float64("gap-y", 2, "vertical gap between labels (mm)")
	autoScale := flag.Bool("autoscale", true, "shrink the grid to fit the safe printable area")
	dpmm := flag.Float64("dpmm", 12, "render density in pixels per millimeter")
	workers := flag.Int("workers", 0, "parallel render workers (0 = number of CPUs)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{})

	if *templatePath == "" {
		log.Fatal("missing -template")
	}
	if err := run(*templatePath, *csvPath, *output, runConfig{
		paper:       tiling.PaperSize(*paper),
		orientation: *orientation,
		rows:        *rows,
		cols:        *cols,
		gapX:        *gapX,
		gapY:        *gapY,
		autoScale:   *autoScale,
		dpmm:        *dpmm,
		workers:     *workers,
	}, logger); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}

type runConfig struct {
	paper       tiling.PaperSize
	orientation string
	rows, cols  int
	gapX, gapY  float64
	autoScale   bool
	dpmm        float64
	workers     int
}

// run chains load, layout, per-record rendering and PDF assembly.
func run(templatePath, csvPath, outputPath string, cfg runConfig, logger *logrus.Logger) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template %s: %w", templatePath, err)
	}
	doc, err := template.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("load template %s: %w", templatePath, err)
	}

	var dataset *binding.Dataset
	if csvPath != "" {
		file, err := os.Open(csvPath)
		if err != nil {
			return fmt.Errorf("open dataset %s: %w", csvPath, err)
		}
		dataset, err = binding.ImportCSV(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("import dataset %s: %w", csvPath, err)
		}
		warnUnresolved(doc, dataset, logger)
	}

	orient, err := tiling.ParseOrientation(cfg.orientation)
	if err != nil {
		return err
	}
	layout, err := tiling.Compute(doc.Dimensions.WidthMM(), doc.Dimensions.HeightMM(), tiling.Config{
		Rows:        cfg.rows,
		Cols:        cfg.cols,
		GapXMM:      cfg.gapX,
		GapYMM:      cfg.gapY,
		Paper:       cfg.paper,
		Orientation: orient,
		AutoScale:   cfg.autoScale,
	})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if layout.Clipped {
		logger.Warnf("grid %gx%gmm exceeds the safe printable area and autoscale is off; content will clip",
			layout.GridW, layout.GridH)
	}

	r := render.New(logger)
	job := &renderer.Job{Layout: layout}
	if dataset == nil {
		// Static preview mode: one page filled with copies of the template.
		img, err := r.RenderStatic(doc, cfg.dpmm)
		if err != nil {
			return fmt.Errorf("render template: %w", err)
		}
		job.Images = []image.Image{img}
		job.Pages = [][]int{layout.StaticPage()}
	} else if dataset.Len() == 0 {
		// An imported dataset with no data rows prints nothing; only the
		// absence of a dataset selects the preview page.
		logger.Warnf("dataset %s has no records; nothing to print", csvPath)
		return nil
	} else {
		images, err := r.RenderBatch(context.Background(), doc, dataset.Records, cfg.dpmm, cfg.workers)
		if err != nil {
			return fmt.Errorf("render records: %w", err)
		}
		job.Images = images
		job.Pages = layout.Paginate(len(images))
	}

	out, err := pdfrenderer.New(doc.TemplateName).Render(job)
	if err != nil {
		return fmt.Errorf("assemble pdf: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write pdf %s: %w", outputPath, err)
	}
	fmt.Printf("wrote %s\n", outputPath)
	return nil
}

// warnUnresolved flags bindings that reference fields absent from the
// dataset; they will render as placeholders.
func warnUnresolved(doc *template.Document, dataset *binding.Dataset, logger *logrus.Logger) {
	for i, o := range doc.Objects {
		key, ok := template.DataKeyOf(o)
		if !ok || key == "" {
			continue
		}
		if !dataset.HasField(key) {
			logger.WithFields(logrus.Fields{
				"object":  i,
				"kind":    o.Kind(),
				"dataKey": key,
			}).Warn("binding does not match any dataset field; rendering placeholder")
		}
	}
}
