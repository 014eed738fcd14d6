package wheatconv

// Per-image COCO documents, written alongside their source images.

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/agrovision/wheatconv/logger"
)

// ImageDocLicense is the license object embedded in a per-image info block.
type ImageDocLicense struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ImageDocInfo describes the dataset in a per-image document.
type ImageDocInfo struct {
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Year        int             `json:"year"`
	Contributor string          `json:"contributor"`
	Source      string          `json:"source"`
	License     ImageDocLicense `json:"license"`
}

// DocImage is the image entry of a per-image document. It carries file
// metadata beyond the plain COCO image fields.
type DocImage struct {
	ID       int64  `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
	Format   string `json:"format"`
	URL      string `json:"url"`
	Hash     string `json:"hash"`
	Status   string `json:"status"`
}

// DocAnnotation is an object annotation of a per-image document.
type DocAnnotation struct {
	ID           int64         `json:"id"`
	ImageID      int64         `json:"image_id"`
	CategoryID   int           `json:"category_id"`
	Segmentation []interface{} `json:"segmentation"`
	Area         float64       `json:"area"`
	Bbox         [4]float64    `json:"bbox"`
}

// ImageDocument defines the per-image COCO document structure.
type ImageDocument struct {
	Info        ImageDocInfo    `json:"info"`
	Images      []DocImage      `json:"images"`
	Annotations []DocAnnotation `json:"annotations"`
	Categories  []CocoCategory  `json:"categories"`
}

// BuildImageDocument assembles a COCO document scoped to the single image at
// imagePath. The i-th box receives annotation ID annotationIDBase+i. Images
// that cannot be decoded contribute fallback dimensions.
func BuildImageDocument(imagePath, imageName string, boxes []Box,
	imageID, annotationIDBase int64, cfg Config) ImageDocument {

	width, height := imageSize(imagePath, cfg.DocFallbackWidth, cfg.DocFallbackHeight)

	doc := ImageDocument{
		Info: ImageDocInfo{
			Description: cfg.DocDescription,
			Version:     cfg.DocInfoVersion,
			Year:        cfg.InfoYear,
			Contributor: cfg.Contributor,
			Source:      cfg.ContribSource,
			License: ImageDocLicense{
				Name: cfg.LicenseName,
				URL:  cfg.LicenseURL,
			},
		},
		Images: []DocImage{
			{
				ID:       imageID,
				Width:    width,
				Height:   height,
				FileName: imageName,
				Size:     fileSize(imagePath),
				Format:   "PNG",
				URL:      "",
				Hash:     "",
				Status:   "success",
			},
		},
		// Must not be nil as that becomes JSON null.
		Annotations: []DocAnnotation{},
		Categories: []CocoCategory{
			{ID: 1, Name: cfg.CategoryName, Supercategory: cfg.DocSupercategory},
		},
	}

	for i, b := range boxes {
		doc.Annotations = append(doc.Annotations, DocAnnotation{
			ID:           annotationIDBase + int64(i),
			ImageID:      imageID,
			CategoryID:   b.CategoryID,
			Segmentation: []interface{}{},
			Area:         b.Area,
			Bbox:         b.Bbox,
		})
	}

	return doc
}

// WriteImageDocument writes the document to outFile as indented JSON.
func WriteImageDocument(outFile string, doc ImageDocument) error {
	enc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %w", outFile, err)
	}
	return nil
}

// Annotate writes one <stem>.json document next to every PNG under
// root/images that has a row in the wide-table CSVs. The three tables are
// merged with the later files overriding earlier ones. Images without a row
// are skipped. Each document gets freshly minted image and annotation IDs
// drawn from rng.
func Annotate(root string, rng *rand.Rand, cfg Config) error {
	trainData := ReadWideTable(filepath.Join(root, cfg.TrainCSV))
	valData := ReadWideTable(filepath.Join(root, cfg.ValCSV))
	testData := ReadWideTable(filepath.Join(root, cfg.TestCSV))

	allData := make(map[string]string, len(trainData)+len(valData)+len(testData))
	for _, data := range []map[string]string{trainData, valData, testData} {
		for name, boxesString := range data {
			allData[name] = boxesString
		}
	}

	imageFiles, err := filesByExtInDir(filepath.Join(root, "images"), ".png")
	if err != nil {
		logger.S().Warnf("Cannot list images under %s: %v", root, err)
		imageFiles = nil
	}

	logger.S().Infof("Found %d images", len(imageFiles))
	logger.S().Infof("Found %d annotations", len(allData))

	for _, imageFile := range imageFiles {
		imageName := filepath.Base(imageFile)

		boxesString, ok := allData[imageName]
		if !ok {
			logger.S().Warnf("No annotation found for %s", imageName)
			continue
		}

		boxes := ParseBoxString(boxesString)
		imageID := NewDocumentID(time.Now(), rng)
		annotationID := NewDocumentID(time.Now(), rng)

		doc := BuildImageDocument(imageFile, imageName, boxes, imageID, annotationID, cfg)

		outPath := filepath.Join(filepath.Dir(imageFile), stem(imageName)+".json")
		if err := WriteImageDocument(outPath, doc); err != nil {
			return err
		}
		logger.S().Infof("Generated %s with %d annotations", outPath, len(boxes))
	}

	return nil
}
