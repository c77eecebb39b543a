package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Itqan-community/RATQ/internal/transform"
)

// ManifestEntry is a per-file override from the site manifest.
type ManifestEntry struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	Group string `json:"group,omitempty"`
}

// Manifest holds optional title and group overrides keyed by relative path.
// Entries never add or remove documents; the walker alone decides what is
// indexed.
type Manifest struct {
	Files []ManifestEntry `json:"files"`

	byPath map[string]ManifestEntry
}

// LoadManifest reads the manifest at path. A missing file yields an empty
// manifest.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{}
	if path == "" {
		m.buildIndex()
		return m, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.buildIndex()
			return m, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.buildIndex()
	return m, nil
}

func (m *Manifest) buildIndex() {
	m.byPath = make(map[string]ManifestEntry, len(m.Files))
	for _, f := range m.Files {
		m.byPath[f.Path] = f
	}
}

// Len returns the number of manifest entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Files)
}

// Lookup returns the entry for relPath, if any.
func (m *Manifest) Lookup(relPath string) (ManifestEntry, bool) {
	if m == nil {
		return ManifestEntry{}, false
	}
	if m.byPath == nil {
		m.buildIndex()
	}
	e, ok := m.byPath[relPath]
	return e, ok
}

// Override converts the entry into transform overrides.
func (e ManifestEntry) Override() *transform.Override {
	return &transform.Override{
		Title: e.Title,
		Group: transform.Group(e.Group),
	}
}
