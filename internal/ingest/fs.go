package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS is the filesystem surface the engine walks. Implementations must report
// access-denied failures so that errors.Is(err, fs.ErrPermission) holds.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// OSFS reads the host filesystem.
type OSFS struct{}

// Stat calls os.Stat.
func (OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// ReadDir calls os.ReadDir.
func (OSFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

// IOFS adapts an fs.FS to FS. Absolute slash-separated paths map onto the
// fs.FS root, so "/data/a" opens "data/a" and "/" opens ".".
type IOFS struct {
	FS fs.FS
}

// Stat calls fs.Stat on the mapped path.
func (f IOFS) Stat(name string) (fs.FileInfo, error) { return fs.Stat(f.FS, ioPath(name)) }

// ReadDir calls fs.ReadDir on the mapped path.
func (f IOFS) ReadDir(name string) ([]fs.DirEntry, error) { return fs.ReadDir(f.FS, ioPath(name)) }

func ioPath(name string) string {
	p := strings.TrimPrefix(filepath.ToSlash(name), "/")
	if p == "" {
		return "."
	}
	return p
}
