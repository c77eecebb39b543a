package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/Itqan-community/RATQ/internal/search"
	"github.com/Itqan-community/RATQ/internal/storage"
	"github.com/Itqan-community/RATQ/internal/transform"
)

// DefaultOutput is the index filename written at the scan root.
const DefaultOutput = "search-index.json"

// Runner scans Root, builds one Record per markdown file and writes the
// index once every file has been processed.
type Runner struct {
	Root       string
	Output     string // index filename relative to Storage.Root
	Excludes   []string
	Classifier *transform.Classifier
	Manifest   *Manifest
	Storage    *storage.FSStorage
	// OpenIndexer, if set, opens the search export. It is called only
	// after the JSON index has been written.
	OpenIndexer func() (search.Indexer, error)
	Logger      *slog.Logger
}

// Run executes the scan. Per-file failures are logged and counted; only
// walk, write and export failures are returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.Storage == nil {
		return Summary{}, errors.New("pipeline runner missing storage")
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
	output := r.Output
	if output == "" {
		output = DefaultOutput
	}

	paths, err := Walk(r.Root, r.Excludes, r.Logger)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{OutputPath: filepath.Join(r.Storage.Root, output)}
	records := make([]Record, 0, len(paths))
	for _, rel := range paths {
		rec, err := r.processFile(rel)
		if err != nil {
			r.Logger.Error("error processing", "path", rel, "error", err)
			summary.Errors++
			continue
		}
		r.Logger.Info("indexed", "path", rec.Path, "language", rec.Language)
		records = append(records, rec)
	}

	if err := r.Storage.WriteIndex(ctx, output, records); err != nil {
		return summary, fmt.Errorf("write index: %w", err)
	}
	summary.Indexed = len(records)

	if r.OpenIndexer != nil {
		if err := r.export(ctx, records); err != nil {
			return summary, err
		}
	}

	r.Logger.Info("generated search index", "path", summary.OutputPath, "entries", summary.Indexed, "errors", summary.Errors)
	return summary, nil
}

func (r *Runner) processFile(rel string) (Record, error) {
	raw, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(rel)))
	if err != nil {
		return Record{}, &FileError{Path: rel, Err: fmt.Errorf("read: %w", err)}
	}
	if !utf8.Valid(raw) {
		return Record{}, &FileError{Path: rel, Err: ErrInvalidUTF8}
	}

	doc := transform.Pipeline(rel, string(raw), r.Classifier, r.override(rel))
	return Record{
		Path:     doc.Path,
		Title:    doc.Title,
		Content:  doc.Content,
		Language: doc.Language,
		Group:    doc.Group,
	}, nil
}

func (r *Runner) override(rel string) *transform.Override {
	entry, ok := r.Manifest.Lookup(rel)
	if !ok {
		return nil
	}
	o := entry.Override()
	if o.Group != "" && !o.Group.Valid() {
		r.Logger.Warn("ignoring invalid manifest group", "path", rel, "group", o.Group)
		o.Group = ""
	}
	return o
}

func (r *Runner) export(ctx context.Context, records []Record) error {
	indexer, err := r.OpenIndexer()
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	for _, rec := range records {
		doc := search.Document{
			Path:     rec.Path,
			Title:    rec.Title,
			Content:  rec.Content,
			Language: string(rec.Language),
			Group:    string(rec.Group),
		}
		if err := indexer.IndexDocument(ctx, doc); err != nil {
			_ = indexer.Abort()
			return fmt.Errorf("export %s: %w", rec.Path, err)
		}
	}
	if err := indexer.Close(); err != nil {
		return fmt.Errorf("close indexer: %w", err)
	}
	return nil
}
