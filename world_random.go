package server

import (
	"hash/fnv"
	"math/rand"
)

// newDeterministicRNG derives a seeded stream from the world seed and a
// subsystem label. Separate labels give independent streams, so combat rolls
// never perturb AI decisions under the same seed.
func newDeterministicRNG(seed, label string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	h.Write([]byte{0})
	h.Write([]byte(label))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
