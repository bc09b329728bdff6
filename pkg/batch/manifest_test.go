package batch

import (
	"testing"

	"github.com/user/grainfx/pkg/mocks"
)

func TestBuildManifest(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/in/b.png", []byte("png"))
	fs.AddFile("/in/a.jpg", []byte("jpeg"))
	fs.AddFile("/in/C.JPG", []byte("JPEG"))
	fs.AddDir("/in/sub.jpg")

	m, err := BuildManifest(fs, "/in", ImagesMode())
	if err != nil {
		t.Fatalf("BuildManifest failed: %v", err)
	}

	want := []Entry{
		{Name: "C.JPG", Size: 4, Reason: SkipNoMatch},
		{Name: "a.jpg", Size: 4, Match: true},
		{Name: "b.png", Size: 3, Reason: SkipNoMatch},
		{Name: "sub.jpg", Reason: SkipDirectory},
	}
	if len(m.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(m.Entries), len(want), m.Entries)
	}
	for i := range want {
		if m.Entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, m.Entries[i], want[i])
		}
	}

	if got := m.Matched(); len(got) != 1 || got[0].Name != "a.jpg" {
		t.Errorf("Matched = %+v", got)
	}
	if got := m.Skipped(); len(got) != 3 {
		t.Errorf("Skipped = %+v", got)
	}
}

func TestBuildManifest_MissingDir(t *testing.T) {
	if _, err := BuildManifest(mocks.NewFileSystem(), "/nope", VideoMode()); err == nil {
		t.Error("expected error for a missing directory")
	}
}
