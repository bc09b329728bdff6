package batch

import (
	"github.com/user/grainfx/pkg/ports"
)

// Skip reasons recorded in a Manifest.
const (
	SkipDirectory = "directory"
	SkipNoMatch   = "no match"
)

// Entry is one classified directory entry.
type Entry struct {
	Name   string
	Size   int64
	Match  bool
	Reason string // why the entry is skipped; empty for matches
}

// Manifest is the sorted, non-recursive listing of an input directory
// classified by a Mode.
type Manifest struct {
	Dir     string
	Entries []Entry
}

// BuildManifest lists dir once and classifies each entry.
func BuildManifest(fs ports.FileSystem, dir string, mode Mode) (Manifest, error) {
	listing, err := fs.ReadDir(dir)
	if err != nil {
		return Manifest{}, err
	}

	m := Manifest{Dir: dir, Entries: make([]Entry, 0, len(listing))}
	for _, de := range listing {
		e := Entry{Name: de.Name, Size: de.Size}
		switch {
		case de.IsDir:
			e.Reason = SkipDirectory
		case mode.Match(de.Name):
			e.Match = true
		default:
			e.Reason = SkipNoMatch
		}
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

// Names returns every entry name in listing order.
func (m Manifest) Names() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Name
	}
	return names
}

// Matched returns the entries to process.
func (m Manifest) Matched() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Match {
			out = append(out, e)
		}
	}
	return out
}

// Skipped returns the entries that are not processed.
func (m Manifest) Skipped() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if !e.Match {
			out = append(out, e)
		}
	}
	return out
}
