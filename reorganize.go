package wheatconv

// Dataset reorganization: a flat images/ directory plus wide-table CSVs
// become the canonical <category>/{images,csv,json,sets} layout.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agrovision/wheatconv/logger"
)

// Reorganize migrates the dataset at root into the canonical layout under
// categoryRoot. The wide-table rows drive the run: per image name, the image
// and a sibling <stem>.json are copied unless the destination already exists,
// and csv/<stem>.csv is rewritten from the parsed box string. Names without a
// source image are counted as skipped. Re-running does not duplicate copies.
func Reorganize(root, categoryRoot string, cfg Config) error {
	imagesDir := filepath.Join(root, "images")
	csvDir := filepath.Join(categoryRoot, "csv")
	jsonDir := filepath.Join(categoryRoot, "json")
	imagesOutDir := filepath.Join(categoryRoot, "images")
	setsDir := filepath.Join(categoryRoot, "sets")

	for _, dir := range []string{csvDir, jsonDir, imagesOutDir, setsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory %q: %w", dir, err)
		}
	}

	trainData := ReadWideTable(filepath.Join(root, cfg.TrainCSV))
	valData := ReadWideTable(filepath.Join(root, cfg.ValCSV))
	testData := ReadWideTable(filepath.Join(root, cfg.TestCSV))

	err := WriteSetFiles(setsDir, stemSet(trainData), stemSet(valData), stemSet(testData))
	if err != nil {
		return err
	}

	// Later tables override earlier ones for names present in several splits.
	allData := make(map[string]string, len(trainData)+len(valData)+len(testData))
	for _, data := range []map[string]string{trainData, valData, testData} {
		for name, boxesString := range data {
			allData[name] = boxesString
		}
	}

	names := make([]string, 0, len(allData))
	for name := range allData {
		names = append(names, name)
	}
	sort.Strings(names)

	processed, skipped := 0, 0
	for _, imageName := range names {
		imageStem := stem(imageName)
		srcImage := filepath.Join(imagesDir, imageName)

		if !fileExists(srcImage) {
			logger.S().Warnf("Image not found: %s", srcImage)
			skipped++
			continue
		}

		destImage := filepath.Join(imagesOutDir, imageName)
		if !fileExists(destImage) {
			if err := copyFile(srcImage, destImage); err != nil {
				return fmt.Errorf("cannot copy %q: %w", srcImage, err)
			}
		}

		srcJSON := filepath.Join(imagesDir, imageStem+".json")
		if fileExists(srcJSON) {
			destJSON := filepath.Join(jsonDir, imageStem+".json")
			if !fileExists(destJSON) {
				if err := copyFile(srcJSON, destJSON); err != nil {
					return fmt.Errorf("cannot copy %q: %w", srcJSON, err)
				}
			}
		}

		boxes := ParseBoxString(allData[imageName])
		if err := WriteImageCSV(filepath.Join(csvDir, imageStem+".csv"), boxes); err != nil {
			return err
		}

		processed++
		if processed%100 == 0 {
			logger.S().Infof("Processed %d images...", processed)
		}
	}

	logger.S().Infof("Done. Processed %d images, skipped %d images", processed, skipped)
	return nil
}
