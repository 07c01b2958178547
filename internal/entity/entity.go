// Package entity turns filesystem metadata into graph records. Nothing here
// touches the store or performs I/O beyond what the caller already obtained.
package entity

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/dirgraph/internal/graph"
)

// ErrEmptyPath is returned by NormalizePath for a blank path.
var ErrEmptyPath = errors.New("entity: empty path")

// NormalizePath returns the absolute, cleaned form of p. The result is the
// identity key used for both directory and file nodes.
func NormalizePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// BuildDirectory returns the record for the directory at path. FileCount is
// the number of file entries actually read from it.
func BuildDirectory(path string, files []graph.FileNode) graph.DirectoryNode {
	return graph.DirectoryNode{
		Path:      path,
		FileCount: len(files),
	}
}

// BuildFile returns the record for the file described by info inside dir.
func BuildFile(dir string, info fs.FileInfo) graph.FileNode {
	name := info.Name()
	size := info.Size()
	if size < 0 {
		size = 0
	}
	return graph.FileNode{
		Path:      filepath.Join(dir, name),
		Name:      name,
		Extension: filepath.Ext(name),
		Size:      size,
	}
}

// SplitEntries classifies the listing of dir into file records and
// subdirectory paths, both in listing order. Anything that is not a directory
// counts as a file; symbolic links are recorded as files and never followed.
// Entries whose metadata cannot be read are skipped and counted in unreadable.
func SplitEntries(dir string, entries []fs.DirEntry) (files []graph.FileNode, subdirs []string, unreadable int) {
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, e.Name()))
			continue
		}
		info, err := e.Info()
		if err != nil {
			unreadable++
			continue
		}
		files = append(files, BuildFile(dir, info))
	}
	return files, subdirs, unreadable
}
