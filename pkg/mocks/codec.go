package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/grainfx/pkg/ports"
)

// ImageCodec is a mock implementation of ports.ImageCodec that keeps
// images in memory.
type ImageCodec struct {
	mu     sync.Mutex
	images map[string]image.Image

	LoadFunc func(path string) (image.Image, error)
	SaveFunc func(path string, img image.Image) error

	// Recorded calls for verification
	Loaded []string
	Saved  []string
}

// NewImageCodec creates a new mock ImageCodec.
func NewImageCodec() *ImageCodec {
	return &ImageCodec{images: make(map[string]image.Image)}
}

// Put stores an image that Load will return for path.
func (m *ImageCodec) Put(path string, img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[path] = img
}

// Get returns the image last saved or put at path.
func (m *ImageCodec) Get(path string) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[path]
	return img, ok
}

func (m *ImageCodec) Load(path string) (image.Image, error) {
	m.mu.Lock()
	m.Loaded = append(m.Loaded, path)
	m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(path)
	}
	img, ok := m.Get(path)
	if !ok {
		return nil, fmt.Errorf("image not found: %s", path)
	}
	return img, nil
}

func (m *ImageCodec) Save(path string, img image.Image) error {
	m.mu.Lock()
	m.Saved = append(m.Saved, path)
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(path, img)
	}
	m.Put(path, img)
	return nil
}

var _ ports.ImageCodec = (*ImageCodec)(nil)
