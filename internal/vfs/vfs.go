// Package vfs provides read-only access to project files, either from the
// live working directory or from an immutable historical snapshot tree.
package vfs

import "errors"

// FileSystem loads file contents by slash-delimited path.
type FileSystem interface {
	Load(path string) ([]byte, error)
}

var (
	// ErrNotFound indicates that a path does not exist in the file system.
	ErrNotFound = errors.New("file not found")
	// ErrOutOfRoot indicates a ".." component that would escape the snapshot root.
	ErrOutOfRoot = errors.New("path escapes snapshot root")
	// ErrSymlinkCycle indicates that the symbolic link budget was exhausted.
	ErrSymlinkCycle = errors.New("symbolic link limit reached")
	// ErrNotADirectory indicates a path component below a non-directory object.
	ErrNotADirectory = errors.New("object is not a directory")
	// ErrNotABlob indicates that a path resolved to a non-file object.
	ErrNotABlob = errors.New("object is not a file")
)
