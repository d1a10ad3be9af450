// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive packages output directories into a single zip file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateZip writes all files under the source directories into <stem>.zip,
// with entry paths relative to each source's parent directory. Missing
// sources are skipped; a pre-existing archive at the destination is
// overwritten. The archive path is returned.
func CreateZip(sourceDirs []string, stem string) (string, error) {
	zipPath := stem + ".zip"

	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating archive %s: %w", zipPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, dir := range sourceDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := addDir(zw, dir); err != nil {
			zw.Close()
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive %s: %w", zipPath, err)
	}
	return zipPath, nil
}

func addDir(zw *zip.Writer, dir string) error {
	parent := filepath.Dir(dir)
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("adding %s to archive: %w", rel, err)
		}
		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		defer src.Close()

		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("writing %s to archive: %w", rel, err)
		}
		return nil
	})
}
