package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

type FSStorage struct {
	Root string
}

func NewFSStorage(root string) *FSStorage {
	return &FSStorage{Root: root}
}

// WriteIndex serialises v as an indented JSON document and atomically
// replaces destPath under Root with it. Non-ASCII and HTML characters are
// written literally.
func (s *FSStorage) WriteIndex(ctx context.Context, destPath string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := encodeIndex(v)
	if err != nil {
		return err
	}
	return s.writeFile(destPath, content)
}

func encodeIndex(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *FSStorage) writeFile(destPath string, content []byte) error {
	fullPath := filepath.Join(s.Root, filepath.FromSlash(destPath))
	return s.writeFileAbsolute(fullPath, content)
}

func (s *FSStorage) writeFileAbsolute(fullPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	// The rename replaces the directory entry itself, so an existing file
	// or stale symlink at fullPath is never followed or partially written.
	if err := renameio.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
