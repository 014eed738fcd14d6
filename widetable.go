package wheatconv

// Wide-table CSV specific functionality. A wide table holds one row per image
// with the raw semicolon-delimited box string in a single column.

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/agrovision/wheatconv/logger"
)

// Column names required in a wide-table header.
const (
	wideImageColumn = "image_name"
	wideBoxesColumn = "BoxesString"
)

// ReadWideTable reads the wide-table CSV at path into a mapping from image
// name to its raw box string. Rows that do not carry both columns are
// skipped; on duplicate image names the last row wins.
//
// Read failures are never fatal: a missing or unreadable file yields an empty
// mapping, a parse error mid-file yields the rows collected up to that point.
// Both are logged.
func ReadWideTable(path string) map[string]string {
	data := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		logger.S().Warnf("Error reading %s: %v", path, err)
		return data
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			logger.S().Warnf("Error reading %s: %v", path, err)
		}
		return data
	}

	nameCol, boxesCol := -1, -1
	for i, col := range header {
		switch col {
		case wideImageColumn:
			nameCol = i
		case wideBoxesColumn:
			boxesCol = i
		}
	}
	if nameCol < 0 || boxesCol < 0 {
		logger.S().Warnf("Missing %q or %q column in %s", wideImageColumn, wideBoxesColumn, path)
		return data
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.S().Warnf("Error reading %s: %v", path, err)
			break
		}
		if len(row) <= nameCol || len(row) <= boxesCol {
			continue
		}
		data[row[nameCol]] = row[boxesCol]
	}

	return data
}
