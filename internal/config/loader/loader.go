// Package loader reads numconv settings from TOML files and the
// environment into plain maps.
//
// Settings maps use the same keys as the editor settings files:
// convert_src_<base>, convert_dst_<base>, overflow, negative and width at
// the top level, and per-syntax overrides under a "syntax" table.
package loader

import (
	"io/fs"
	"os"
)

// Loader reads one settings source.
type Loader interface {
	// Load returns the settings map of the source. A missing source
	// returns nil, nil.
	Load() (map[string]any, error)
}

// FileSystem is the file access the loaders need. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}
