package effects

import (
	"image"
	"math/rand/v2"
	"strings"
	"time"
)

// Chain applies effects in a fixed order.
type Chain struct {
	name    string
	effects []Effect
}

// NewChain returns a chain that applies effects left to right.
func NewChain(name string, effects ...Effect) *Chain {
	return &Chain{name: name, effects: effects}
}

// StillChain is the pipeline for still images: distortion, then grain on top.
func StillChain() *Chain {
	return NewChain("still", NewDistortion(), NewGrain())
}

// VideoChain is the pipeline for video frames: grain, then distortion, then
// contrast. It differs from StillChain in both order and content.
func VideoChain() *Chain {
	return NewChain("video", NewGrain(), NewDistortion(), NewVideoContrast())
}

// Name returns the chain name.
func (c *Chain) Name() string { return c.name }

// Effects returns the effects in application order.
func (c *Chain) Effects() []Effect {
	return append([]Effect(nil), c.effects...)
}

// String lists the effect names, for example "grain > distortion".
func (c *Chain) String() string {
	names := make([]string, len(c.effects))
	for i, e := range c.effects {
		names[i] = e.Name()
	}
	return strings.Join(names, " > ")
}

// Apply runs every effect in order. All effects share rng so that a seeded
// generator yields one reproducible result.
func (c *Chain) Apply(img image.Image, rng *rand.Rand) *image.NRGBA {
	if len(c.effects) == 0 {
		return cloneOf(img)
	}
	var out *image.NRGBA
	cur := img
	for _, e := range c.effects {
		out = e.Apply(cur, rng)
		cur = out
	}
	return out
}

// FrameFunc transforms one video frame presented at time t. It must not keep
// state between calls.
type FrameFunc func(frame image.Image, t time.Duration) image.Image

// FrameFunc binds the chain to a clip. Randomness for each frame comes from
// seeder keyed by clip and t, so a seeded run renders a given frame the same
// way regardless of the order frames are requested in.
func (c *Chain) FrameFunc(seeder *Seeder, clip string) FrameFunc {
	return func(frame image.Image, t time.Duration) image.Image {
		return c.Apply(frame, seeder.ForFrame(clip, t))
	}
}
