package wheatconv

// Annotation preview rendering: box outlines drawn over the source images.

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"github.com/agrovision/wheatconv/logger"
)

// boxOutlineColor is the stroke color for rendered box outlines.
var boxOutlineColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// drawBoxes returns a copy of img with each box drawn as an outlined
// rectangle. Negative extents are drawn as-is.
func drawBoxes(img image.Image, boxes []Box) *image.RGBA {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	gc := draw2dimg.NewGraphicContext(canvas)
	gc.SetStrokeColor(boxOutlineColor)
	gc.SetLineWidth(2)
	for _, b := range boxes {
		x1, y1, x2, y2 := b.Corners()
		draw2dkit.Rectangle(gc, x1, y1, x2, y2)
		gc.Stroke()
	}

	return canvas
}

// renderPreview loads the image at path, draws the boxes over it, and scales
// the result down so its longer side is at most maxSide (0 keeps the source
// dimensions).
func renderPreview(path string, boxes []Box, maxSide int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image %q: %w", path, err)
	}

	var out image.Image = drawBoxes(img, boxes)
	if maxSide > 0 {
		out = imaging.Fit(out, maxSide, maxSide, imaging.Lanczos)
	}
	return out, nil
}

// RenderPreviews renders annotated previews for up to limit images of the
// split (0 renders all members) into outDir as <stem>.jpg. Images that cannot
// be loaded are skipped.
func RenderPreviews(categoryRoot, split, outDir string, maxSide, limit int, cfg Config) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory %q: %w", outDir, err)
	}

	rendered := 0
	for _, imageStem := range splitMembers(categoryRoot, split) {
		if limit > 0 && rendered >= limit {
			break
		}

		imgPath, ok := locateImage(filepath.Join(categoryRoot, "images"), imageStem)
		if !ok {
			logger.S().Debugf("No image file for stem %q, skipping", imageStem)
			continue
		}

		boxes := ReadImageCSV(filepath.Join(categoryRoot, "csv", imageStem+".csv"))
		img, err := renderPreview(imgPath, boxes, maxSide)
		if err != nil {
			logger.S().Warnf("Cannot render %s: %v", imgPath, err)
			continue
		}

		outPath := filepath.Join(outDir, imageStem+".jpg")
		if err := saveImage(outPath, img, cfg.JPEGQuality); err != nil {
			return err
		}
		rendered++
	}

	logger.S().Infof("Rendered %d previews to %s", rendered, outDir)
	return nil
}

// Saves the image to path, encoding it as PNG or JPG, depending on the file extension of path.
func saveImage(path string, img image.Image, jpegQuality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	return err
}
