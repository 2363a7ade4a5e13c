// =============================================================================
// SUNAT Document Parser - File Utilities
// =============================================================================
//
// This module provides the small file-level helpers shared across the
// pipeline: directory management, recursive file discovery and timestamped
// artifact naming. Discovery skips hidden entries so editor droppings and OS
// metadata never enter a batch.
//
// =============================================================================

package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// stampLayout is the timestamp format used in artifact and log file names.
const stampLayout = "20060102_150405"

// Timestamp returns the current time formatted for artifact names.
func Timestamp() string {
	return time.Now().Format(stampLayout)
}

// StampedName builds "<prefix>_<timestamp>.<ext>" for output artifacts.
func StampedName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, Timestamp(), ext)
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WalkFiles calls fn for every regular file under root, in walk order.
// Hidden files and hidden directories are skipped.
func WalkFiles(root string, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		return fn(path, d)
	})
}
