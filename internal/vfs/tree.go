package vfs

import (
	"fmt"
	"strings"
)

// Tree is one directory level of a historical snapshot.
type Tree interface {
	// Entry looks up a direct child by name. A missing name reports
	// ErrNotFound.
	Entry(name string) (Entry, error)
}

// Blob is regular file content in a historical snapshot.
type Blob interface {
	Content() ([]byte, error)
}

// Entry is a resolved directory entry. Node is either a Tree or a Blob.
// Symlink marks entries whose blob content is a link target path.
type Entry struct {
	Symlink bool
	Node    any
}

// symlinkLimit bounds chained link resolutions during a single Load,
// guarding against cyclic links inside the snapshot.
const symlinkLimit = 40

// TreeFS resolves paths against a snapshot tree. Symbolic links and ".."
// components are resolved inside the snapshot, never against the host
// file system.
type TreeFS struct {
	root Tree
}

// NewTreeFS creates a snapshot file system rooted at the given tree.
func NewTreeFS(root Tree) *TreeFS {
	return &TreeFS{root: root}
}

// Load resolves path component by component starting at the root tree.
// The remaining components are kept as a stack so a symbolic link can
// splice its target path in place of the link component.
func (t *TreeFS) Load(path string) ([]byte, error) {
	components := pathComponents(path)
	var node any = t.root
	var parents []Tree
	budget := symlinkLimit

	for len(components) > 0 {
		name := components[len(components)-1]
		components = components[:len(components)-1]

		if name == ".." {
			if len(parents) == 0 {
				return nil, fmt.Errorf("resolving %s: %w", path, ErrOutOfRoot)
			}
			node = parents[len(parents)-1]
			parents = parents[:len(parents)-1]
			continue
		}

		tree, ok := node.(Tree)
		if !ok {
			return nil, fmt.Errorf("resolving %s: parent of %q: %w", path, name, ErrNotADirectory)
		}
		entry, err := tree.Entry(name)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: component %q: %w", path, name, err)
		}

		if entry.Symlink {
			if budget == 0 {
				return nil, fmt.Errorf("resolving %s: component %q: %w", path, name, ErrSymlinkCycle)
			}
			budget--
			blob, ok := entry.Node.(Blob)
			if !ok {
				return nil, fmt.Errorf("resolving %s: link %q: %w", path, name, ErrNotABlob)
			}
			target, err := blob.Content()
			if err != nil {
				return nil, fmt.Errorf("resolving %s: link %q: %w", path, name, err)
			}
			// The link target resolves relative to the directory that
			// contains the link, so the current tree stays in place.
			components = append(components, pathComponents(string(target))...)
			continue
		}

		parents = append(parents, tree)
		node = entry.Node
	}

	blob, ok := node.(Blob)
	if !ok {
		return nil, fmt.Errorf("resolving %s: %w", path, ErrNotABlob)
	}
	content, err := blob.Content()
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return content, nil
}

// pathComponents splits a slash path, dropping empty and "." components.
// The result is ordered so the next component to consume is at the end.
func pathComponents(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "" || parts[i] == "." {
			continue
		}
		out = append(out, parts[i])
	}
	return out
}
