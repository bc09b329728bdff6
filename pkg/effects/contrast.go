package effects

import (
	"image"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// Contrast scales every sample's distance from the image's mean luminance.
type Contrast struct {
	Factor float64
}

// NewVideoContrast returns the contrast boost used on video frames.
func NewVideoContrast() Contrast {
	return Contrast{Factor: VideoContrastFactor}
}

// Name implements Effect.
func (c Contrast) Name() string { return "contrast" }

// Apply implements Effect. rng is unused. Alpha is kept. Fractions are
// dropped, not rounded.
func (c Contrast) Apply(img image.Image, _ *rand.Rand) *image.NRGBA {
	dst := cloneOf(img)
	mean := float64(MeanLuminance(dst))

	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			for k := 0; k < 3; k++ {
				row[i+k] = clamp8(mean + c.Factor*(float64(row[i+k])-mean))
			}
		}
	}
	return dst
}

// MeanLuminance returns the average ITU-R 601 luma of img rounded to the
// nearest integer. Per-pixel luma is computed in 16-bit fixed point the way
// common imaging libraries convert RGB to grayscale. An empty image has
// luminance 0.
func MeanLuminance(img image.Image) int {
	src := cloneOf(img)
	b := src.Bounds()
	if b.Empty() {
		return 0
	}

	lum := make([]float64, 0, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			r, g, bl := int(row[i]), int(row[i+1]), int(row[i+2])
			lum = append(lum, float64((r*19595+g*38470+bl*7471+0x8000)>>16))
		}
	}
	return int(stat.Mean(lum, nil) + 0.5)
}
