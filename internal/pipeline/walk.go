package pipeline

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExcludes are path markers whose directories are never scanned.
var DefaultExcludes = []string{".git", "node_modules", ".github"}

const markdownExt = ".md"

// Walk returns the slash-separated paths, relative to root, of every
// markdown file under root. A directory is pruned when its relative path
// contains any of excludes as a substring. Paths are returned in lexical
// order. Unreadable directories are logged and skipped. Symlinks are
// followed to decide whether they name a regular file but are never
// descended into.
func Walk(root string, excludes []string, logger *slog.Logger) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			if path == root {
				return err
			}
			if logger != nil {
				logger.Warn("skipping unreadable path", "path", rel, "error", err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if rel != "." && excluded(rel, excludes) {
				if logger != nil {
					logger.Debug("skipping excluded directory", "path", rel)
				}
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), markdownExt) {
			return nil
		}
		if !regularFile(path, d) {
			if logger != nil {
				logger.Debug("skipping non-regular file", "path", rel)
			}
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

func excluded(rel string, excludes []string) bool {
	for _, marker := range excludes {
		if marker != "" && strings.Contains(rel, marker) {
			return true
		}
	}
	return false
}

// regularFile reports whether d is a regular file or a symlink to one. A
// dangling symlink counts as a file so that the read failure is reported
// for it.
func regularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Mode().IsRegular()
}
