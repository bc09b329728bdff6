// Package effects implements the grainfx image transforms: film grain,
// the tint-and-blur distortion look, and contrast enhancement.
//
// Every effect returns a new *image.NRGBA and leaves its input untouched.
package effects

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
)

// Fixed effect parameters.
const (
	DefaultGrainIntensity = 0.1
	GrainScale            = 155.0
	TintAlpha             = 0.3
	BlurSigma             = 2.0
	VideoContrastFactor   = 1.5
)

// TintColor is the icy blue blended over every pixel by Distortion.
var TintColor = color.NRGBA{R: 173, G: 216, B: 230, A: 255}

// Effect is a single image transform. Effects that need randomness draw it
// from rng; the others ignore it.
type Effect interface {
	Name() string
	Apply(img image.Image, rng *rand.Rand) *image.NRGBA
}

// clamp8 clips v to [0,255] and truncates it to a byte.
func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// round8 rounds v to the nearest integer and clips it to [0,255].
func round8(v float64) uint8 {
	return clamp8(v + 0.5)
}

// entropy returns a generator seeded from the runtime's random source.
func entropy() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// cloneOf returns an NRGBA copy of img with its origin moved to (0,0).
func cloneOf(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}
