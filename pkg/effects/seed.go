package effects

import (
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Seeder hands out random generators. Without a seed every generator is
// drawn from entropy; with one, generators are derived from the seed and a
// key so runs can be reproduced.
type Seeder struct {
	seed   uint64
	seeded bool
}

// NewSeeder returns a Seeder. A nil seed means non-reproducible noise.
func NewSeeder(seed *uint64) *Seeder {
	if seed == nil {
		return &Seeder{}
	}
	return &Seeder{seed: *seed, seeded: true}
}

// Seeded reports whether generators are reproducible.
func (s *Seeder) Seeded() bool {
	return s != nil && s.seeded
}

// ForFile returns the generator for a still image.
func (s *Seeder) ForFile(name string) *rand.Rand {
	if !s.Seeded() {
		return entropy()
	}
	return rand.New(rand.NewPCG(s.seed, keyHash(name)))
}

// ForFrame returns the generator for the frame of clip presented at t.
func (s *Seeder) ForFrame(clip string, t time.Duration) *rand.Rand {
	if !s.Seeded() {
		return entropy()
	}
	return rand.New(rand.NewPCG(s.seed^keyHash(clip), uint64(t)))
}

func keyHash(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}
