package effects

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func samePixels(a, b *image.NRGBA) bool {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		return false
	}
	for y := 0; y < a.Bounds().Dy(); y++ {
		for x := 0; x < a.Bounds().Dx(); x++ {
			pa := a.NRGBAAt(a.Bounds().Min.X+x, a.Bounds().Min.Y+y)
			pb := b.NRGBAAt(b.Bounds().Min.X+x, b.Bounds().Min.Y+y)
			if pa != pb {
				return false
			}
		}
	}
	return true
}

func TestGrain_ZeroIntensityIsNoop(t *testing.T) {
	src := gradient(32, 24)
	for _, intensity := range []float64{0, -0.5} {
		out := Grain{Intensity: intensity}.Apply(src, seeded(1))
		if !samePixels(src, out) {
			t.Errorf("intensity %v: expected unchanged image", intensity)
		}
		if out == src {
			t.Errorf("intensity %v: expected a copy, got the input", intensity)
		}
	}
}

func TestGrain_PreservesDimensionsAndAlpha(t *testing.T) {
	src := solid(40, 30, color.NRGBA{R: 250, G: 5, B: 128, A: 200})
	out := NewGrain().Apply(src, seeded(2))

	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 30 {
		t.Fatalf("expected 40x30, got %v", out.Bounds())
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 200 {
			t.Fatalf("alpha changed at byte %d: %d", i, out.Pix[i])
		}
	}
}

func TestGrain_DoesNotMutateInput(t *testing.T) {
	src := solid(16, 16, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	before := cloneOf(src)
	NewGrain().Apply(src, seeded(3))
	if !samePixels(src, before) {
		t.Error("input was modified")
	}
}

func TestGrain_NoiseStatistics(t *testing.T) {
	src := solid(128, 128, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out := NewGrain().Apply(src, seeded(4))

	var samples []float64
	for i := 0; i < len(out.Pix); i += 4 {
		samples = append(samples, float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2]))
	}
	mean, std := stat.MeanStdDev(samples, nil)

	// Truncation to uint8 biases the mean down by about half a level.
	if mean < 126 || mean > 129 {
		t.Errorf("mean = %.2f, want about 127.5", mean)
	}
	want := DefaultGrainIntensity * GrainScale
	if std < want-1.5 || std > want+1.5 {
		t.Errorf("stddev = %.2f, want about %.1f", std, want)
	}
}

func TestGrain_ClampsToRange(t *testing.T) {
	// Samples near the ends of the range must clamp rather than wrap.
	black := solid(64, 64, color.NRGBA{A: 255})
	out := Grain{Intensity: 1}.Apply(black, seeded(5))
	var zeros int
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] == 0 {
			zeros++
		}
	}
	// Half the draws are negative and must land on 0.
	if zeros < len(out.Pix)/4/3 {
		t.Errorf("expected many clamped zeros, got %d of %d", zeros, len(out.Pix)/4)
	}
}

func TestGrain_NotIdempotent(t *testing.T) {
	src := gradient(32, 32)
	g := NewGrain()
	rng := seeded(6)
	once := g.Apply(src, rng)
	twice := g.Apply(once, rng)
	if samePixels(once, twice) {
		t.Error("applying grain twice matched applying it once")
	}
}

func TestGrain_SameSeedSameResult(t *testing.T) {
	src := gradient(20, 20)
	a := NewGrain().Apply(src, seeded(7))
	b := NewGrain().Apply(src, seeded(7))
	if !samePixels(a, b) {
		t.Error("expected identical output for identical seeds")
	}
}

func TestDistortion_BlendOfUniformColor(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		want color.NRGBA
	}{
		{"red", color.NRGBA{R: 255, A: 255}, color.NRGBA{R: 230, G: 65, B: 69, A: 255}},
		{"black", color.NRGBA{A: 255}, color.NRGBA{R: 52, G: 65, B: 69, A: 255}},
		{"gray", color.NRGBA{R: 200, G: 200, B: 200, A: 255}, color.NRGBA{R: 192, G: 205, B: 209, A: 255}},
		{"translucent", color.NRGBA{R: 100, G: 100, B: 100, A: 10}, color.NRGBA{R: 122, G: 135, B: 139, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewDistortion().Blend(solid(10, 10, tt.in))
			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					if got := out.NRGBAAt(x, y); got != tt.want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, tt.want)
					}
				}
			}
		})
	}
}

func TestDistortion_ApplyKeepsSizeAndUniformity(t *testing.T) {
	out := NewDistortion().Apply(solid(100, 60, color.NRGBA{R: 255, A: 255}), nil)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 60 {
		t.Fatalf("expected 100x60, got %v", out.Bounds())
	}
	want := color.NRGBA{R: 230, G: 65, B: 69, A: 255}
	for _, p := range []image.Point{{0, 0}, {50, 30}, {99, 59}} {
		got := out.NRGBAAt(p.X, p.Y)
		if diff(got.R, want.R) > 1 || diff(got.G, want.G) > 1 || diff(got.B, want.B) > 1 {
			t.Errorf("pixel %v = %v, want about %v", p, got, want)
		}
	}
}

func TestDistortion_BlursEdges(t *testing.T) {
	img := solid(20, 1, color.NRGBA{A: 255})
	for x := 10; x < 20; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}
	d := NewDistortion()
	blended := d.Blend(img)
	blurred := d.Apply(img, nil)
	if blurred.NRGBAAt(9, 0).R <= blended.NRGBAAt(9, 0).R {
		t.Error("expected the dark side of the edge to brighten")
	}
	if blurred.NRGBAAt(10, 0).R >= blended.NRGBAAt(10, 0).R {
		t.Error("expected the bright side of the edge to darken")
	}
}

func TestDistortion_AcceptsGrayInput(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range gray.Pix {
		gray.Pix[i] = 200
	}
	out := NewDistortion().Blend(gray)
	want := color.NRGBA{R: 192, G: 205, B: 209, A: 255}
	if got := out.NRGBAAt(3, 3); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestContrast_IdentityFactor(t *testing.T) {
	src := gradient(50, 40)
	out := Contrast{Factor: 1}.Apply(src, nil)
	if !samePixels(src, out) {
		t.Error("factor 1.0 changed the image")
	}
}

func TestContrast_StretchesAroundMean(t *testing.T) {
	// Half 100, half 200 gray: mean luminance 150.
	img := solid(10, 10, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	for y := 5; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	if m := MeanLuminance(img); m != 150 {
		t.Fatalf("MeanLuminance = %d, want 150", m)
	}

	out := NewVideoContrast().Apply(img, nil)
	if got := out.NRGBAAt(0, 0).R; got != 75 {
		t.Errorf("dark sample = %d, want 75", got)
	}
	if got := out.NRGBAAt(0, 9).R; got != 225 {
		t.Errorf("bright sample = %d, want 225", got)
	}
}

func TestContrast_TruncatesFractions(t *testing.T) {
	// 101 and 199 average to 150; 150 + 1.5*(101-150) = 76.5 and
	// 150 + 1.5*(199-150) = 223.5 both drop their fraction.
	img := solid(2, 1, color.NRGBA{R: 101, G: 101, B: 101, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 199, G: 199, B: 199, A: 255})

	out := NewVideoContrast().Apply(img, nil)
	if got := out.NRGBAAt(0, 0).R; got != 76 {
		t.Errorf("dark sample = %d, want 76", got)
	}
	if got := out.NRGBAAt(1, 0).R; got != 223 {
		t.Errorf("bright sample = %d, want 223", got)
	}
}

func TestContrast_Clamps(t *testing.T) {
	img := solid(2, 1, color.NRGBA{A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out := Contrast{Factor: 3}.Apply(img, nil)
	if got := out.NRGBAAt(0, 0).R; got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := out.NRGBAAt(1, 0).R; got != 255 {
		t.Errorf("expected 255, got %d", got)
	}
}

func TestMeanLuminance(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want int
	}{
		{"black", color.NRGBA{A: 255}, 0},
		{"white", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 255},
		{"red", color.NRGBA{R: 255, A: 255}, 76},
		{"green", color.NRGBA{G: 255, A: 255}, 150},
		{"blue", color.NRGBA{B: 255, A: 255}, 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeanLuminance(solid(4, 4, tt.c)); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
