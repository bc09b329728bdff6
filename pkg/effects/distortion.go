package effects

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
)

// Distortion blends a solid tint over the image and then blurs it, giving
// the washed-out look of a worn VHS tape.
type Distortion struct {
	Tint  color.NRGBA
	Alpha float64 // weight of the tint in the blend
	Sigma float64 // Gaussian blur standard deviation
}

// NewDistortion returns the distortion with its fixed parameters.
func NewDistortion() Distortion {
	return Distortion{Tint: TintColor, Alpha: TintAlpha, Sigma: BlurSigma}
}

// Name implements Effect.
func (d Distortion) Name() string { return "distortion" }

// Blend returns the tinted image before blurring. The input is treated as
// opaque RGB: its alpha channel is discarded.
func (d Distortion) Blend(img image.Image) *image.NRGBA {
	keep := 1 - d.Alpha
	tr := float64(d.Tint.R) * d.Alpha
	tg := float64(d.Tint.G) * d.Alpha
	tb := float64(d.Tint.B) * d.Alpha
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: round8(float64(c.R)*keep + tr),
			G: round8(float64(c.G)*keep + tg),
			B: round8(float64(c.B)*keep + tb),
			A: 255,
		}
	})
}

// Apply implements Effect. rng is unused.
func (d Distortion) Apply(img image.Image, _ *rand.Rand) *image.NRGBA {
	return imaging.Blur(d.Blend(img), d.Sigma)
}
