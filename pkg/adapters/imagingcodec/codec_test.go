package imagingcodec

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func solidRed(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
		img.Pix[i+3] = 255
	}
	return img
}

func TestCodec_SaveAndLoadJPEG(t *testing.T) {
	c := New()
	path := filepath.Join(t.TempDir(), "a.jpg")

	if err := c.Save(path, solidRed(100, 80)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	img, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("size = %v, want 100x80", b)
	}

	r, g, b, _ := img.At(50, 40).RGBA()
	if r>>8 < 240 || g>>8 > 15 || b>>8 > 15 {
		t.Errorf("center pixel = %v, want about red", color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b)})
	}
}

func TestCodec_SavePNGByExtension(t *testing.T) {
	c := New()
	path := filepath.Join(t.TempDir(), "b.png")
	if err := c.Save(path, solidRed(4, 4)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[1:4]) != "PNG" {
		t.Errorf("expected PNG signature, got %q", data[:8])
	}
}

func TestCodec_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	os.WriteFile(path, []byte("not a jpeg"), 0644)
	if _, err := New().Load(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestCodec_SaveUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.xyz")
	if err := New().Save(path, solidRed(2, 2)); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestNewWithQuality(t *testing.T) {
	if q := NewWithQuality(90).Quality(); q != 90 {
		t.Errorf("quality = %d", q)
	}
	if q := NewWithQuality(0).Quality(); q != DefaultJPEGQuality {
		t.Errorf("out-of-range quality = %d, want default", q)
	}
}
