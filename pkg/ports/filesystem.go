package ports

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// FileSystem abstracts the filesystem operations the batch runners need.
type FileSystem interface {
	// ReadDir lists a directory non-recursively, sorted by name.
	ReadDir(path string) ([]DirEntry, error)

	// MkdirAll creates a directory and its parents. It succeeds when the
	// directory already exists.
	MkdirAll(path string) error

	// WriteFile writes data to a file, creating parent directories.
	WriteFile(path string, data []byte) error

	// Exists reports whether a file or directory exists.
	Exists(path string) (bool, error)

	// Size returns the size of a regular file in bytes.
	Size(path string) (int64, error)

	// Remove deletes a file. Removing a missing file is not an error.
	Remove(path string) error
}
