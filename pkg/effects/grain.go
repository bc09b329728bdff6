package effects

import (
	"image"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Grain adds zero-mean Gaussian noise to every color sample.
type Grain struct {
	// Intensity scales the noise; the standard deviation is Intensity*GrainScale.
	Intensity float64
}

// NewGrain returns grain at the default intensity.
func NewGrain() Grain {
	return Grain{Intensity: DefaultGrainIntensity}
}

// Name implements Effect.
func (g Grain) Name() string { return "grain" }

// Sigma returns the standard deviation of the noise in 8-bit sample units.
func (g Grain) Sigma() float64 {
	return g.Intensity * GrainScale
}

// Apply implements Effect. Each of R, G and B receives its own independent
// draw; alpha is kept. A nil rng draws from a fresh entropy-seeded source.
// Intensity <= 0 returns an unmodified copy.
func (g Grain) Apply(img image.Image, rng *rand.Rand) *image.NRGBA {
	dst := cloneOf(img)
	if g.Intensity <= 0 {
		return dst
	}
	if rng == nil {
		rng = entropy()
	}

	noise := distuv.Normal{Mu: 0, Sigma: g.Sigma(), Src: rng}
	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = clamp8(float64(row[i+0]) + noise.Rand())
			row[i+1] = clamp8(float64(row[i+1]) + noise.Rand())
			row[i+2] = clamp8(float64(row[i+2]) + noise.Rand())
		}
	}
	return dst
}
