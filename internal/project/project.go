// Package project discovers SMART projects and their rooms and detects
// rooms that differ between two filesystem snapshots.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blkerby/smartdiff/internal/room"
	"github.com/blkerby/smartdiff/internal/vfs"
)

// Find returns the directories below root that contain a project.xml,
// sorted. Paths use forward slashes so they resolve on both providers.
func Find(root string) ([]string, error) {
	var projects []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "project.xml" {
			projects = append(projects, filepath.ToSlash(filepath.Dir(p)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s for projects: %w", root, err)
	}
	sort.Strings(projects)
	return projects, nil
}

// Rooms lists the room names of a project, sorted.
func Rooms(projectDir string) ([]string, error) {
	pattern := filepath.Join(filepath.FromSlash(projectDir), "Export", "Rooms", "*.xml")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("listing rooms of %s: %w", projectDir, err)
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names, nil
}

// Modified returns the rooms whose documents differ between the two
// providers. A document missing on exactly one side counts as modified;
// missing on both sides is skipped.
func Modified(working, reference vfs.FileSystem, projectDir string, rooms []string) ([]string, error) {
	var modified []string
	for _, name := range rooms {
		docPath := room.DocumentPath(projectDir, name)

		workingDoc, workingErr := working.Load(docPath)
		if workingErr != nil && !errors.Is(workingErr, vfs.ErrNotFound) {
			return nil, workingErr
		}
		referenceDoc, referenceErr := reference.Load(docPath)
		if referenceErr != nil && !errors.Is(referenceErr, vfs.ErrNotFound) {
			return nil, referenceErr
		}

		switch {
		case workingErr != nil && referenceErr != nil:
			continue
		case workingErr != nil || referenceErr != nil:
			modified = append(modified, name)
		case !bytes.Equal(workingDoc, referenceDoc):
			modified = append(modified, name)
		}
	}
	return modified, nil
}
