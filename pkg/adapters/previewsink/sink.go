// Package previewsink writes before/after comparison sheets as PNG files.
package previewsink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/user/grainfx/pkg/ports"
	"golang.org/x/image/draw"
)

// Sheet layout.
const (
	DefaultPanelWidth = 480
	DefaultFrameEvery = 30
	labelHeight       = 24
	gap               = 8
)

var (
	backgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	labelColor      = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Sink saves comparison sheets under baseDir.
type Sink struct {
	baseDir    string
	fs         ports.FileSystem
	panelWidth int
	frameEvery int
}

// New creates a sink writing into baseDir. frameEvery controls which video
// frames get a sheet (every n-th, starting at the first); values below 1
// use DefaultFrameEvery.
func New(baseDir string, fs ports.FileSystem, frameEvery int) *Sink {
	if frameEvery < 1 {
		frameEvery = DefaultFrameEvery
	}
	return &Sink{
		baseDir:    baseDir,
		fs:         fs,
		panelWidth: DefaultPanelWidth,
		frameEvery: frameEvery,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveStill saves <name>.preview.png.
func (s *Sink) SaveStill(name string, before, after image.Image) error {
	path := filepath.Join(s.baseDir, stem(name)+".preview.png")
	return s.save(path, before, after)
}

// SaveFrame saves <name>/frame-NNNNNN.png for every frameEvery-th frame and
// ignores the others.
func (s *Sink) SaveFrame(name string, index int, before, after image.Image) error {
	if index%s.frameEvery != 0 {
		return nil
	}
	path := filepath.Join(s.baseDir, stem(name), fmt.Sprintf("frame-%06d.png", index))
	return s.save(path, before, after)
}

func (s *Sink) save(path string, before, after image.Image) error {
	data, err := s.Render(before, after)
	if err != nil {
		return err
	}
	return s.fs.WriteFile(path, data)
}

// Render draws the two images side by side, scaled to the panel width,
// with a label over each, and returns the PNG bytes.
func (s *Sink) Render(before, after image.Image) ([]byte, error) {
	left := fit(before, s.panelWidth)
	right := fit(after, s.panelWidth)

	pw := max(left.Bounds().Dx(), right.Bounds().Dx())
	ph := max(left.Bounds().Dy(), right.Bounds().Dy())

	dc := gg.NewContext(pw*2+gap*3, ph+labelHeight+gap*2)
	dc.SetColor(backgroundColor)
	dc.Clear()

	dc.DrawImage(left, gap, labelHeight+gap)
	dc.DrawImage(right, pw+gap*2, labelHeight+gap)

	dc.SetColor(labelColor)
	dc.DrawStringAnchored("before", float64(gap+pw/2), labelHeight/2+gap/2, 0.5, 0.5)
	dc.DrawStringAnchored("after", float64(pw+gap*2+pw/2), labelHeight/2+gap/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img down to width, keeping its aspect ratio. Smaller images
// are returned unchanged.
func fit(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() <= width {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Ensure Sink implements ports.PreviewSink
var _ ports.PreviewSink = (*Sink)(nil)
