// Package batch runs a file stage over every matching file of an input
// directory, one file at a time.
package batch

import (
	"path/filepath"
	"strings"
)

// Matcher reports whether a directory entry name should be processed.
type Matcher func(name string) bool

// Mode describes one kind of batch run: which files it picks up and how
// outputs are named.
type Mode struct {
	Name   string
	Prefix string // prepended to the input name to form the output name
	Match  Matcher

	// Announce logs the directory listing and every skipped entry at info
	// level. Otherwise they are logged at debug level.
	Announce bool
}

// ImagesMode selects "*.jpg" files (case-sensitive) and writes
// "processed_<name>".
func ImagesMode() Mode {
	return Mode{
		Name:   "images",
		Prefix: "processed_",
		Match:  Suffix(".jpg"),
	}
}

// VideoMode selects ".mov" files in any letter case and writes
// "filtered_<name>".
func VideoMode() Mode {
	return Mode{
		Name:     "video",
		Prefix:   "filtered_",
		Match:    ExtFold(".mov"),
		Announce: true,
	}
}

// OutputName returns the output file name for an input name.
func (m Mode) OutputName(name string) string {
	return m.Prefix + name
}

// Suffix matches names ending in suffix, case-sensitively. A name that is
// only the suffix matches too.
func Suffix(suffix string) Matcher {
	return func(name string) bool {
		return strings.HasSuffix(name, suffix)
	}
}

// ExtFold matches names whose extension equals ext ignoring case.
func ExtFold(ext string) Matcher {
	return func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	}
}
