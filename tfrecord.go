package wheatconv

// TFRecord export for object detection training pipelines.

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow

	"github.com/agrovision/wheatconv/logger"
)

// TFFeatureMap maps feature names to their values. Values must be convertible
// to tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// tfExampleFeatures builds the detection feature map for a single image. Box
// coordinates are normalized to [0, 1] corner form against the decoded image
// dimensions.
func tfExampleFeatures(imagePath, imageStem string, boxes []Box, className string) (TFFeatureMap, error) {
	img, format, err := decodeImageConfig(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %w", err)
	}

	imgData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %w", err)
	}

	f := make(TFFeatureMap, 16)
	f["image/height"] = img.Height
	f["image/width"] = img.Width
	f["image/filename"] = filepath.Base(imagePath)
	f["image/source_id"] = imageStem
	f["image/encoded"] = imgData
	f["image/format"] = format

	numBoxes := len(boxes)
	xmins := make([]float32, numBoxes)
	ymins := make([]float32, numBoxes)
	xmaxs := make([]float32, numBoxes)
	ymaxs := make([]float32, numBoxes)
	classes := make([]string, numBoxes)
	classIDs := make([]int64, numBoxes)
	for i, b := range boxes {
		x1, y1, x2, y2 := b.Corners()
		xmins[i] = float32(x1) / float32(img.Width)
		ymins[i] = float32(y1) / float32(img.Height)
		xmaxs[i] = float32(x2) / float32(img.Width)
		ymaxs[i] = float32(y2) / float32(img.Height)
		classes[i] = className
		classIDs[i] = int64(b.CategoryID)
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// ExportTFRecord converts one split of the dataset at categoryRoot to the
// TFRecord format, written to recordPath (with shard suffixes added when
// numShards > 1), and writes a label map to labelMapPath.
//
// Images that cannot be decoded are skipped; the export embeds the real
// image bytes, so no fallback dimensions apply here.
func ExportTFRecord(categoryRoot, split, recordPath, labelMapPath string,
	numShards int, cfg Config) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}

	// Resolve the image paths up front so shard sizes are known.
	type member struct {
		stem string
		path string
	}
	var members []member
	for _, s := range splitMembers(categoryRoot, split) {
		if p, ok := locateImage(filepath.Join(categoryRoot, "images"), s); ok {
			members = append(members, member{stem: s, path: p})
		} else {
			logger.S().Debugf("No image file for stem %q, skipping", s)
		}
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	defer func() {
		if shardFile != nil {
			_ = shardFile.Close()
		}
	}()
	shardSize := int(math.Ceil(float64(len(members)) / float64(numShards)))
	shardIdx := -1

	written := 0
	for i, m := range members {
		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++

			if shardFile != nil {
				_ = shardFile.Close()
				shardFile = nil
			}

			shardPath := recordPath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return fmt.Errorf("failed to create shard at %q: %w", shardPath, err)
			}
			shardFile = f
		}

		boxes := ReadImageCSV(filepath.Join(categoryRoot, "csv", m.stem+".csv"))
		features, err := tfExampleFeatures(m.path, m.stem, boxes, cfg.CategoryName)
		if err != nil {
			logger.S().Warnf("Failed to convert %q: %v", m.path, err)
			continue
		}
		tfExample := example.New(features)

		if err := writeTFRecordExample(shardFile, tfExample); err != nil {
			logger.S().Errorf("Failed to write example: %v", err)
			break
		}
		written++
	}

	if err := writeLabelMap(labelMapPath, map[int]string{1: cfg.CategoryName}); err != nil {
		return err
	}

	logger.S().Infof("Exported %d of %d images to %s", written, len(members), recordPath)
	return nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// writeLabelMap writes the id-to-name labels as a prototxt string-int label
// map to path, ordered by id.
func writeLabelMap(path string, labels map[int]string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the label map file %q: %w", path, err)
	}
	defer closeWithErrCheck(file, &err)

	ids := make([]int, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		_, err := fmt.Fprintf(file, "item {\n  id: %d\n  name: '%s'\n}\n", id, labels[id])
		if err != nil {
			return err
		}
	}
	return nil
}
