// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan discovers PDF documents under an input root.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsPDF reports whether name has a .pdf extension, case-insensitively.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// ListPDFs returns the PDF files under root, sorted lexicographically for
// deterministic batch order. With recursive set, subdirectories are
// searched; otherwise only root's direct entries are considered.
func ListPDFs(root string, recursive bool) ([]string, error) {
	var paths []string

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsPDF(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		for _, e := range entries {
			if !e.IsDir() && IsPDF(e.Name()) {
				paths = append(paths, filepath.Join(root, e.Name()))
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// RelPath returns path relative to base, falling back to the bare filename
// when path does not live under base.
func RelPath(path, base string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}
