package wheatconv

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentID(t *testing.T) {
	now := time.Unix(1735689845, 0)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		id := NewDocumentID(now, rng)
		assert.GreaterOrEqual(t, id, int64(1000000000))
		assert.LessOrEqual(t, id, int64(9999999999))
		// The last three digits come from the timestamp.
		assert.Equal(t, int64(845), id%1000)
	}
}

func TestNewDocumentIDDeterministic(t *testing.T) {
	now := time.Unix(500, 0)
	a := NewDocumentID(now, rand.New(rand.NewSource(3)))
	b := NewDocumentID(now, rand.New(rand.NewSource(3)))
	assert.Equal(t, a, b)
}
