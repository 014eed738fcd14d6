package wheatconv

// Shared test fixtures.

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestPNG writes a width x height PNG with a simple gradient to path,
// creating parent directories.
func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// writeTestFile writes content to path, creating parent directories.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newCategoryRoot creates an empty canonical category layout under a fresh
// temp dir and returns its path.
func newCategoryRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "wheat_heads")
	for _, d := range []string{"images", "csv", "json", "sets"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
	return root
}
