package analytics

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"tradejournal/internal/models"
)

// RandomSource draws uniform indices for bootstrap resampling.
type RandomSource interface {
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

// SourceFactory builds the source for one independent stream of a seed.
// Sources built from the same (seed, stream) pair must draw the same sequence.
type SourceFactory func(seed, stream uint64) RandomSource

// NewPCGSource is the default SourceFactory.
func NewPCGSource(seed, stream uint64) RandomSource {
	return NewSeededRandomSource(seed, stream)
}

// SeededRandomSource is a deterministic PCG generator. Two sources built
// from the same (seed, stream) pair produce the same sequence.
type SeededRandomSource struct {
	rng *rand.Rand
}

// NewSeededRandomSource creates a source for one independent stream of a seed.
func NewSeededRandomSource(seed, stream uint64) *SeededRandomSource {
	return &SeededRandomSource{rng: rand.New(rand.NewPCG(seed, stream))}
}

// IntN implements RandomSource.
func (s *SeededRandomSource) IntN(n int) int {
	return s.rng.IntN(n)
}

// SeedFor derives the projection seed from the user, the last known day of
// the series and its length: xxhash64 of "userID|YYYY-MM-DD|n". Unchanged
// data gives an unchanged seed; any new day gives a new one.
func SeedFor(userID string, lastDate time.Time, n int) uint64 {
	key := userID + "|" + models.DateKey(lastDate) + "|" + strconv.Itoa(n)
	return xxhash.Sum64String(key)
}

// streamFor separates the generator streams of each (horizon, chunk) pair.
func streamFor(horizon, chunk int) uint64 {
	return uint64(horizon)<<32 | uint64(uint32(chunk))
}
