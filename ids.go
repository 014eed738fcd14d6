package wheatconv

import (
	"math/rand"
	"time"
)

// NewDocumentID mints a 10-digit identifier for per-image documents: seven
// random digits followed by the three low digits of the unix timestamp.
// Uniqueness is probabilistic; IDs are only required to be distinct within a
// single document, where the annotation IDs are derived from one base by
// offset.
func NewDocumentID(now time.Time, rng *rand.Rand) int64 {
	randomPart := int64(rng.Intn(9000000) + 1000000) // 7 digits
	timestampPart := now.Unix() % 1000
	return randomPart*1000 + timestampPart
}
