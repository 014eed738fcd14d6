package wheatconv

// The intermediate bounding-box representation and box-string parsing.

import (
	"strconv"
	"strings"

	"github.com/agrovision/wheatconv/logger"
)

// Box is the intermediate representation of one object annotation.
//
// Bbox holds x, y, width, height offsets from the top-left image corner.
// Width and height are taken as-is from the source data and may be negative
// when corner coordinates arrive swapped; nothing rejects that.
type Box struct {
	Bbox       [4]float64 `json:"bbox"`
	Area       float64    `json:"area"` // width*height, fixed at construction.
	CategoryID int        `json:"category_id"`
	Item       int        `json:"item"` // 0-based segment index within the source box string.
}

// Width is the box width from b.Bbox.
func (b Box) Width() float64 {
	return b.Bbox[2]
}

// Height is the box height from b.Bbox.
func (b Box) Height() float64 {
	return b.Bbox[3]
}

// Corners returns the x1, y1, x2, y2 corner coordinates of the box.
func (b Box) Corners() (x1, y1, x2, y2 float64) {
	return b.Bbox[0], b.Bbox[1], b.Bbox[0] + b.Bbox[2], b.Bbox[1] + b.Bbox[3]
}

// ParseBoxString parses the wide-table box encoding "x1 y1 x2 y2;x1 y1 x2 y2;..."
// into boxes. An empty string yields no boxes. Each semicolon-separated segment
// must hold exactly four numbers; segments that do not are dropped, and their
// segment index is not reused, so the surviving boxes keep the item numbering
// of the source string.
func ParseBoxString(s string) []Box {
	if s == "" {
		return nil
	}

	segments := strings.Split(s, ";")
	boxes := make([]Box, 0, len(segments))
	for i, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		tokens := strings.Fields(segment)
		if len(tokens) != 4 {
			logger.S().Debugf("Dropping box segment %q: expected 4 values, got %d", segment, len(tokens))
			continue
		}

		var coords [4]float64
		valid := true
		for j, token := range tokens {
			v, err := strconv.ParseFloat(token, 64)
			if err != nil {
				logger.S().Debugf("Dropping box segment %q: %v", segment, err)
				valid = false
				break
			}
			coords[j] = v
		}
		if !valid {
			continue
		}

		x1, y1, x2, y2 := coords[0], coords[1], coords[2], coords[3]
		boxes = append(boxes, Box{
			Bbox:       [4]float64{x1, y1, x2 - x1, y2 - y1},
			Area:       (x2 - x1) * (y2 - y1),
			CategoryID: 1,
			Item:       i,
		})
	}

	return boxes
}
