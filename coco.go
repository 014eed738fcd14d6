package wheatconv

// COCO object-detection documents for dataset splits.

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/agrovision/wheatconv/logger"
)

// CocoInfo describes the dataset a document was generated from.
type CocoInfo struct {
	Year        int    `json:"year"`
	Version     string `json:"version"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// CocoImage is a single image entry of a COCO document.
type CocoImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// CocoAnnotation is a single object annotation of a COCO document.
type CocoAnnotation struct {
	ID         int        `json:"id"`
	ImageID    int        `json:"image_id"`
	CategoryID int        `json:"category_id"`
	Bbox       [4]float64 `json:"bbox"`
	Area       float64    `json:"area"`
	Iscrowd    int        `json:"iscrowd"`
}

// CocoCategory is an object category entry of a COCO document.
type CocoCategory struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

// CocoDocument defines the COCO object-detection document structure.
type CocoDocument struct {
	Info        CocoInfo         `json:"info"`
	Images      []CocoImage      `json:"images"`
	Annotations []CocoAnnotation `json:"annotations"`
	Categories  []CocoCategory   `json:"categories"`
	Licenses    []interface{}    `json:"licenses"`
}

// splitMembers resolves the image stems belonging to split under categoryRoot,
// sorted. When the split file is missing or empty, every image directly under
// images/ is a member.
func splitMembers(categoryRoot, split string) []string {
	set := make(map[string]struct{})
	for _, s := range ReadSplitList(filepath.Join(categoryRoot, "sets", split+".txt")) {
		set[s] = struct{}{}
	}

	if len(set) == 0 {
		stems, err := imageStemsInDir(filepath.Join(categoryRoot, "images"))
		if err != nil {
			logger.S().Warnf("Cannot list images under %s: %v", categoryRoot, err)
			return nil
		}
		set = stems
	}

	return sortedStems(set)
}

// BuildSplitDocument assembles the COCO document for one split of the dataset
// at categoryRoot. Stems without an image file are skipped and do not consume
// an image ID. Boxes come from csv/<stem>.csv; images that cannot be decoded
// contribute fallback dimensions.
func BuildSplitDocument(categoryRoot, split string, cfg Config) CocoDocument {
	category := filepath.Base(categoryRoot)

	doc := CocoDocument{
		Info: CocoInfo{
			Year:        cfg.InfoYear,
			Version:     cfg.InfoVersion,
			Description: fmt.Sprintf("%s %s %s split", cfg.DatasetFullName, category, split),
			URL:         cfg.DatasetURL,
		},
		// Must not be nil as that becomes JSON null.
		Images:      []CocoImage{},
		Annotations: []CocoAnnotation{},
		Categories: []CocoCategory{
			{ID: 1, Name: cfg.CategoryName, Supercategory: cfg.Supercategory},
		},
		Licenses: []interface{}{},
	}

	annotationID := 1
	for _, imageStem := range splitMembers(categoryRoot, split) {
		imgPath, ok := locateImage(filepath.Join(categoryRoot, "images"), imageStem)
		if !ok {
			logger.S().Debugf("No image file for stem %q, skipping", imageStem)
			continue
		}

		width, height := imageSize(imgPath, cfg.FallbackWidth, cfg.FallbackHeight)
		imageID := len(doc.Images) + 1
		doc.Images = append(doc.Images, CocoImage{
			ID:       imageID,
			FileName: path.Join(category, "images", filepath.Base(imgPath)),
			Width:    width,
			Height:   height,
		})

		for _, b := range ReadImageCSV(filepath.Join(categoryRoot, "csv", imageStem+".csv")) {
			doc.Annotations = append(doc.Annotations, CocoAnnotation{
				ID:         annotationID,
				ImageID:    imageID,
				CategoryID: b.CategoryID,
				Bbox:       b.Bbox,
				Area:       b.Area,
				Iscrowd:    0,
			})
			annotationID++
		}
	}

	return doc
}

// WriteCocoDocument writes the document to outFile as indented JSON.
func WriteCocoDocument(outFile string, doc CocoDocument) error {
	enc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %w", outFile, err)
	}
	return nil
}

// ConvertSplits generates one COCO annotation file per requested split for the
// category under root, written to outDir as <category>_instances_<split>.json.
func ConvertSplits(root, outDir, category string, splits []string, cfg Config) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory %q: %w", outDir, err)
	}

	categoryRoot := filepath.Join(root, category)
	for _, split := range splits {
		doc := BuildSplitDocument(categoryRoot, split, cfg)
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_instances_%s.json", category, split))
		if err := WriteCocoDocument(outPath, doc); err != nil {
			return err
		}
		logger.S().Infof("Generated %s with %d images and %d annotations",
			outPath, len(doc.Images), len(doc.Annotations))
	}
	return nil
}
