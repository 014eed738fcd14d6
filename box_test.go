package wheatconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoxString(t *testing.T) {
	t.Run("valid boxes", func(t *testing.T) {
		boxes := ParseBoxString("10 10 50 40;0 0 100 200")
		require.Len(t, boxes, 2)

		assert.Equal(t, [4]float64{10, 10, 40, 30}, boxes[0].Bbox)
		assert.Equal(t, 1200.0, boxes[0].Area)
		assert.Equal(t, 1, boxes[0].CategoryID)
		assert.Equal(t, 0, boxes[0].Item)

		assert.Equal(t, [4]float64{0, 0, 100, 200}, boxes[1].Bbox)
		assert.Equal(t, 20000.0, boxes[1].Area)
		assert.Equal(t, 1, boxes[1].Item)
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Empty(t, ParseBoxString(""))
	})

	t.Run("blank segments", func(t *testing.T) {
		assert.Empty(t, ParseBoxString(" ; ;"))
	})

	t.Run("malformed segment dropped", func(t *testing.T) {
		boxes := ParseBoxString("10 10 50 40;bad;20 20 30 30")
		require.Len(t, boxes, 2)
		// The dropped segment keeps its index, so the survivors are 0 and 2.
		assert.Equal(t, 0, boxes[0].Item)
		assert.Equal(t, 2, boxes[1].Item)
	})

	t.Run("wrong token count dropped", func(t *testing.T) {
		boxes := ParseBoxString("1 2 3;1 2 3 4 5;5 5 10 10")
		require.Len(t, boxes, 1)
		assert.Equal(t, [4]float64{5, 5, 5, 5}, boxes[0].Bbox)
		assert.Equal(t, 2, boxes[0].Item)
	})

	t.Run("swapped corners keep negative extents", func(t *testing.T) {
		boxes := ParseBoxString("50 40 10 10")
		require.Len(t, boxes, 1)
		assert.Equal(t, [4]float64{50, 40, -40, -30}, boxes[0].Bbox)
		assert.Equal(t, 1200.0, boxes[0].Area)
	})

	t.Run("float coordinates", func(t *testing.T) {
		boxes := ParseBoxString("1.5 2.5 3.5 5.0")
		require.Len(t, boxes, 1)
		assert.Equal(t, [4]float64{1.5, 2.5, 2.0, 2.5}, boxes[0].Bbox)
		assert.Equal(t, 5.0, boxes[0].Area)
	})

	t.Run("varied whitespace between tokens", func(t *testing.T) {
		boxes := ParseBoxString("  0  0\t10 10  ")
		require.Len(t, boxes, 1)
		assert.Equal(t, [4]float64{0, 0, 10, 10}, boxes[0].Bbox)
	})
}

func TestBoxGeometry(t *testing.T) {
	b := Box{Bbox: [4]float64{2, 3, 6, 4}}

	x1, y1, x2, y2 := b.Corners()
	assert.Equal(t, 2.0, x1)
	assert.Equal(t, 3.0, y1)
	assert.Equal(t, 8.0, x2)
	assert.Equal(t, 7.0, y2)

	assert.Equal(t, 6.0, b.Width())
	assert.Equal(t, 4.0, b.Height())
}
