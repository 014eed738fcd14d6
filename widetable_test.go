package wheatconv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWideTable(t *testing.T) {
	t.Run("maps image names to box strings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.csv")
		writeTestFile(t, path,
			"image_name,BoxesString\n"+
				"a.png,0 0 10 10;20 20 30 30\n"+
				"b.png,\n")

		data := ReadWideTable(path)
		require.Len(t, data, 2)
		assert.Equal(t, "0 0 10 10;20 20 30 30", data["a.png"])
		assert.Equal(t, "", data["b.png"])
	})

	t.Run("extra columns are ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.csv")
		writeTestFile(t, path,
			"domain,image_name,width,BoxesString\n"+
				"field_1,a.png,1024,5 5 15 15\n")

		data := ReadWideTable(path)
		require.Len(t, data, 1)
		assert.Equal(t, "5 5 15 15", data["a.png"])
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.csv")
		writeTestFile(t, path,
			"image_name,BoxesString\n"+
				"short_row\n"+
				"a.png,1 1 2 2\n")

		data := ReadWideTable(path)
		require.Len(t, data, 1)
		assert.Equal(t, "1 1 2 2", data["a.png"])
	})

	t.Run("duplicate names keep the last row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.csv")
		writeTestFile(t, path,
			"image_name,BoxesString\n"+
				"a.png,0 0 1 1\n"+
				"a.png,0 0 2 2\n")

		data := ReadWideTable(path)
		require.Len(t, data, 1)
		assert.Equal(t, "0 0 2 2", data["a.png"])
	})

	t.Run("missing file yields an empty mapping", func(t *testing.T) {
		data := ReadWideTable(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Empty(t, data)
	})

	t.Run("missing required column yields an empty mapping", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.csv")
		writeTestFile(t, path, "image_name,boxes\na.png,0 0 1 1\n")

		assert.Empty(t, ReadWideTable(path))
	})
}
