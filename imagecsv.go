package wheatconv

// Per-image CSV specific functionality. Each image has one CSV file under
// csv/<stem>.csv with one row per box.

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agrovision/wheatconv/logger"
)

// imageCSVHeader is the header written for per-image annotation files.
var imageCSVHeader = []string{"#item", "x", "y", "width", "height", "label"}

// Accepted per-image CSV column synonyms. Lookups are case-insensitive and
// consult the names in this order; the first column whose value parses wins.
var (
	xColumns      = []string{"x", "xc", "x_center"}
	yColumns      = []string{"y", "yc", "y_center"}
	radiusColumns = []string{"r", "radius"}
	widthColumns  = []string{"w", "width", "dx"}
	heightColumns = []string{"h", "height", "dy"}
	labelColumns  = []string{"label", "class", "category_id"}
)

// ReadImageCSV reads the per-image annotation file at path.
//
// Rows may describe rectangles (x, y plus width/height columns) or circles
// (x, y plus a radius column); circles become square boxes of side 2r
// centered on (x, y). Rows without usable x and y, or with neither radius nor
// both size columns, are skipped. A missing file yields no boxes and no
// error.
func ReadImageCSV(path string) []Box {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.S().Warnf("Error reading %s: %v", path, err)
		}
		return nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			logger.S().Warnf("Error reading %s: %v", path, err)
		}
		return nil
	}

	// Case-insensitive column name to index; the last duplicate wins.
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(name)] = i
	}

	// get returns the first value among the named columns that parses as a
	// number. Empty and unparseable values fall through to the next name.
	get := func(row []string, names []string) (float64, bool) {
		for _, name := range names {
			i, ok := cols[name]
			if !ok || i >= len(row) || row[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				continue
			}
			return v, true
		}
		return 0, false
	}

	var boxes []Box
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.S().Warnf("Error reading %s: %v", path, err)
			break
		}

		x, okX := get(row, xColumns)
		y, okY := get(row, yColumns)
		if !okX || !okY {
			continue
		}

		categoryID := 1
		if label, ok := get(row, labelColumns); ok {
			categoryID = int(label)
		}

		var box Box
		if r, ok := get(row, radiusColumns); ok {
			box = Box{
				Bbox:       [4]float64{x - r, y - r, 2 * r, 2 * r},
				Area:       (2 * r) * (2 * r),
				CategoryID: categoryID,
			}
		} else if w, okW := get(row, widthColumns); okW {
			h, okH := get(row, heightColumns)
			if !okH {
				continue
			}
			box = Box{
				Bbox:       [4]float64{x, y, w, h},
				Area:       w * h,
				CategoryID: categoryID,
			}
		} else {
			continue
		}

		box.Item = len(boxes)
		boxes = append(boxes, box)
	}

	return boxes
}

// WriteImageCSV writes boxes as the per-image annotation file at path,
// replacing any previous contents. The label column is fixed at 1.
func WriteImageCSV(path string, boxes []Box) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	w := csv.NewWriter(file)
	if err := w.Write(imageCSVHeader); err != nil {
		return err
	}
	for _, b := range boxes {
		record := []string{
			strconv.Itoa(b.Item),
			formatCoord(b.Bbox[0]),
			formatCoord(b.Bbox[1]),
			formatCoord(b.Bbox[2]),
			formatCoord(b.Bbox[3]),
			"1",
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatCoord formats a coordinate value without an exponent and without
// trailing zeros.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
