package wheatconv

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildImageDocument(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("single image with annotations", func(t *testing.T) {
		dir := t.TempDir()
		imgPath := filepath.Join(dir, "field_01.png")
		writeTestPNG(t, imgPath, 32, 16)

		boxes := ParseBoxString("0 0 10 10;20 5 30 15")
		doc := BuildImageDocument(imgPath, "field_01.png", boxes, 1234567890, 9876543210, cfg)

		require.Len(t, doc.Images, 1)
		img := doc.Images[0]
		assert.Equal(t, int64(1234567890), img.ID)
		assert.Equal(t, 32, img.Width)
		assert.Equal(t, 16, img.Height)
		assert.Equal(t, "field_01.png", img.FileName)
		assert.Greater(t, img.Size, int64(0))
		assert.Equal(t, "PNG", img.Format)
		assert.Equal(t, "success", img.Status)

		// Annotation IDs count up from the base.
		require.Len(t, doc.Annotations, 2)
		assert.Equal(t, int64(9876543210), doc.Annotations[0].ID)
		assert.Equal(t, int64(9876543211), doc.Annotations[1].ID)
		assert.Equal(t, int64(1234567890), doc.Annotations[0].ImageID)
		assert.Equal(t, [4]float64{0, 0, 10, 10}, doc.Annotations[0].Bbox)
		assert.Equal(t, 100.0, doc.Annotations[0].Area)

		require.Len(t, doc.Categories, 1)
		assert.Equal(t, CocoCategory{ID: 1, Name: "wheat_head", Supercategory: "broccoli"},
			doc.Categories[0])

		assert.Equal(t, "Wheat head counting dataset", doc.Info.Description)
		assert.Equal(t, "1.0", doc.Info.Version)
		assert.Equal(t, "Agricultural AI", doc.Info.Contributor)
		assert.Equal(t, "augmented", doc.Info.Source)
		assert.Equal(t, "https://creativecommons.org/licenses/by/4.0/", doc.Info.License.URL)
	})

	t.Run("unreadable image falls back to 512", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.png")
		doc := BuildImageDocument(missing, "missing.png", nil, 1, 1, cfg)

		require.Len(t, doc.Images, 1)
		assert.Equal(t, 512, doc.Images[0].Width)
		assert.Equal(t, 512, doc.Images[0].Height)
		assert.Equal(t, int64(0), doc.Images[0].Size)
	})

	t.Run("serializes segmentation without iscrowd", func(t *testing.T) {
		imgPath := filepath.Join(t.TempDir(), "a.png")
		writeTestPNG(t, imgPath, 8, 8)

		doc := BuildImageDocument(imgPath, "a.png", ParseBoxString("1 1 2 2"), 10, 20, cfg)
		enc, err := json.MarshalIndent(doc, "", "  ")
		require.NoError(t, err)

		text := string(enc)
		assert.Contains(t, text, `"segmentation": []`)
		assert.NotContains(t, text, `"iscrowd"`)
		assert.NotContains(t, text, `"licenses"`)
	})
}

func TestAnnotate(t *testing.T) {
	cfg := DefaultConfig()
	root := t.TempDir()
	imagesDir := filepath.Join(root, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	writeTestPNG(t, filepath.Join(imagesDir, "a.png"), 16, 16)
	writeTestPNG(t, filepath.Join(imagesDir, "b.png"), 16, 16)
	writeTestPNG(t, filepath.Join(imagesDir, "c.png"), 16, 16)
	writeTestFile(t, filepath.Join(root, "competition_train.csv"),
		"image_name,BoxesString\na.png,0 0 10 10\n")
	writeTestFile(t, filepath.Join(root, "competition_val.csv"),
		"image_name,BoxesString\nc.png,\n")

	rng := rand.New(rand.NewSource(1))
	require.NoError(t, Annotate(root, rng, cfg))

	// a.png had a row, so a.json was written next to it.
	enc, err := os.ReadFile(filepath.Join(imagesDir, "a.json"))
	require.NoError(t, err)
	var doc ImageDocument
	require.NoError(t, json.Unmarshal(enc, &doc))
	require.Len(t, doc.Images, 1)
	require.Len(t, doc.Annotations, 1)
	assert.Equal(t, doc.Images[0].ID, doc.Annotations[0].ImageID)
	assert.Equal(t, [4]float64{0, 0, 10, 10}, doc.Annotations[0].Bbox)

	// b.png had no row anywhere and is skipped.
	assert.NoFileExists(t, filepath.Join(imagesDir, "b.json"))

	// c.png had an empty box string, which still yields a document.
	cEnc, err := os.ReadFile(filepath.Join(imagesDir, "c.json"))
	require.NoError(t, err)
	var cDoc ImageDocument
	require.NoError(t, json.Unmarshal(cEnc, &cDoc))
	require.Len(t, cDoc.Images, 1)
	assert.Empty(t, cDoc.Annotations)
}
