package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itqan-community/RATQ/internal/pipeline"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readRecords(t *testing.T, path string) []pipeline.Record {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []pipeline.Record
	require.NoError(t, json.Unmarshal(raw, &records))
	return records
}

func TestRunDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Apps", "Foo-AR.md"), "---\ntitle: \"Foo App\"\n---\n# Ignored Heading\nBody text.\n")
	writeFile(t, filepath.Join(root, "Technologies", "bar.md"), "# Bar Tech\n")

	t.Chdir(root)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))

	records := readRecords(t, filepath.Join(root, "search-index.json"))
	require.Len(t, records, 2)
	assert.Equal(t, pipeline.Record{
		Path:     "Apps/Foo-AR.md",
		Title:    "Foo App",
		Content:  "# Ignored Heading\nBody text.",
		Language: "ar",
		Group:    "apps",
	}, records[0])
	assert.Equal(t, "Bar Tech", records[1].Title)
	assert.Contains(t, out.String(), `msg="generated search index"`)
}

func TestRunFlags(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.md"), "# A\n")
	dbPath := filepath.Join(t.TempDir(), "search.db")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"--config", filepath.Join(root, "absent.yaml"),
		"--root", root,
		"--output", "index.json",
		"--sqlite", dbPath,
		"--log-level", "warn",
	}, &out)
	require.NoError(t, err)

	assert.Len(t, readRecords(t, filepath.Join(root, "index.json")), 1)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.NotContains(t, out.String(), "msg=indexed")
}

func TestRunConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Guides", "g.md"), "# Guide\n")
	writeFile(t, filepath.Join(root, "drafts", "d.md"), "# Draft\n")
	cfgPath := filepath.Join(t.TempDir(), "searchindex.yaml")
	writeFile(t, cfgPath, "root: "+root+"\nexclude: [drafts]\ngroups:\n  - prefix: Guides/\n    group: technologies\n")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--config", cfgPath}, &out))

	records := readRecords(t, filepath.Join(root, "search-index.json"))
	require.Len(t, records, 1)
	assert.Equal(t, "Guides/g.md", records[0].Path)
	assert.Equal(t, "technologies", string(records[0].Group))
}

func TestRunManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# Heading\n")
	writeFile(t, filepath.Join(root, "manifest.json"), `{"files":[{"path":"a.md","title":"From Manifest","group":"apps"}]}`)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--config", filepath.Join(root, "absent.yaml"), "--root", root, "--manifest", "manifest.json"}, &out))

	records := readRecords(t, filepath.Join(root, "search-index.json"))
	require.Len(t, records, 1)
	assert.Equal(t, "From Manifest", records[0].Title)
	assert.Equal(t, "apps", string(records[0].Group))
	assert.Contains(t, out.String(), `msg="loaded manifest"`)
}

func TestRunDefaultsIgnoreManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Technologies", "bar.md"), "# Bar Tech\n")
	writeFile(t, filepath.Join(root, "manifest.json"), `{"files":[{"path":"Technologies/bar.md","title":"Bar (nav)","group":"apps"}]}`)

	t.Chdir(root)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))

	records := readRecords(t, filepath.Join(root, "search-index.json"))
	require.Len(t, records, 1)
	assert.Equal(t, "Bar Tech", records[0].Title)
	assert.Equal(t, "technologies", string(records[0].Group))
	assert.NotContains(t, out.String(), `msg="loaded manifest"`)
}

func TestRunFatalErrorKeepsSQLiteExport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# A\n")
	dbPath := filepath.Join(t.TempDir(), "search.db")
	absentConfig := filepath.Join(root, "absent.yaml")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--config", absentConfig, "--root", root, "--sqlite", dbPath}, &out))
	before, err := os.ReadFile(dbPath)
	require.NoError(t, err)

	err = run(context.Background(), []string{"--config", absentConfig, "--root", filepath.Join(root, "typo"), "--sqlite", dbPath}, &out)
	require.Error(t, err)

	after, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunPerFileErrorsAreNotFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.md"), "# Good\n")
	writeFile(t, filepath.Join(root, "bad.md"), string([]byte{0xff, 0xfe}))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--config", filepath.Join(root, "absent.yaml"), "--root", root}, &out))
	assert.Contains(t, out.String(), `msg="error processing" path=bad.md`)
	assert.Len(t, readRecords(t, filepath.Join(root, "search-index.json")), 1)
}

func TestRunFatalErrors(t *testing.T) {
	root := t.TempDir()
	badManifest := t.TempDir()
	writeFile(t, filepath.Join(badManifest, "manifest.json"), "{not json")
	badConfig := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, badConfig, "groups:\n  - prefix: X/\n    group: misc\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing root", []string{"--config", filepath.Join(root, "absent.yaml"), "--root", filepath.Join(root, "absent")}},
		{"invalid manifest", []string{"--config", filepath.Join(root, "absent.yaml"), "--root", badManifest, "--manifest", "manifest.json"}},
		{"invalid config", []string{"--config", badConfig, "--root", root}},
		{"nested output", []string{"--config", filepath.Join(root, "absent.yaml"), "--root", root, "--output", "a/b.json"}},
		{"unexpected argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(context.Background(), tt.args, &out))
		})
	}
}
