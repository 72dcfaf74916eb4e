// Copyright (c) 2026 camp-sub001 contributors.

/*
Package ena walks a media root looking for candidate release files and
leaves a small sidecar marker behind once a file has been matched by the
update pipeline (C7), so a later pass does not re-offer it. Grounded on the
original's ena::marker/ena::marks.
*/
package ena

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/367718/camp-sub001/internal/nadeshiko"
	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// markerSuffix is appended to a matched file's path to produce its sidecar
// marker path.
const markerSuffix = ".watched"

// Walk lists every regular file under root as a [nadeshiko.FileEntry],
// skipping files that already carry a watched marker.
func Walk(root string) ([]nadeshiko.FileEntry, error) {
	var out []nadeshiko.FileEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == markerSuffix {
			return nil
		}
		if Marked(path) {
			return nil
		}
		out = append(out, nadeshiko.FileEntry{Name: d.Name(), Path: path})
		return nil
	})
	if err != nil {
		return nil, apperr.IO("walk media root "+root, err)
	}
	return out, nil
}

// Marked reports whether path already has a watched/updated marker.
func Marked(path string) bool {
	_, err := os.Stat(markerPath(path))
	return err == nil
}

// Mark writes a zero-byte sidecar marker for path, so a later [Walk] skips
// it.
func Mark(path string) error {
	f, err := os.OpenFile(markerPath(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return apperr.IO("write watched marker for "+path, err)
	}
	return f.Close()
}

func markerPath(path string) string {
	return path + markerSuffix
}
