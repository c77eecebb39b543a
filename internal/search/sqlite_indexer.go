package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const batchSize = 500

var errClosed = errors.New("sqlite indexer is closed")

// SQLiteIndexer builds an SQLite database with an FTS5 table over title and
// content. Documents go into a temporary file next to the destination, which
// replaces the destination only when Close succeeds.
type SQLiteIndexer struct {
	path    string // destination
	tmpPath string
	db      *sql.DB
	insert  *sql.Stmt
	tx      *sql.Tx
	pending int
	done    bool
}

// NewSQLiteIndexer prepares an export to path. An existing database at path
// is not touched until Close.
func NewSQLiteIndexer(path string) (*SQLiteIndexer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp db: %w", err)
	}
	tmpPath := f.Name()
	err = f.Chmod(0o644)
	_ = f.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("chmod temp db: %w", err)
	}

	db, err := openDB(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}
	s := &SQLiteIndexer{path: path, tmpPath: tmpPath, db: db}

	if _, err := db.Exec(schema); err != nil {
		_ = s.Abort()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if s.insert, err = db.Prepare(`INSERT INTO documents (path, title, content, language, grp) VALUES (?, ?, ?, ?, ?)`); err != nil {
		_ = s.Abort()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return s, nil
}

// IndexDocument adds doc to the current batch. A path that was already
// indexed is an error.
func (s *SQLiteIndexer) IndexDocument(ctx context.Context, doc Document) error {
	if s.done {
		return errClosed
	}
	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		s.tx = tx
	}

	if _, err := s.tx.StmtContext(ctx, s.insert).ExecContext(ctx, doc.Path, doc.Title, doc.Content, doc.Language, doc.Group); err != nil {
		return fmt.Errorf("index document %s: %w", doc.Path, err)
	}

	s.pending++
	if s.pending >= batchSize {
		return s.commit()
	}
	return nil
}

func (s *SQLiteIndexer) commit() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	s.pending = 0
	if err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Close commits the last batch and moves the database into place. Calls
// after the first are no-ops.
func (s *SQLiteIndexer) Close() error {
	if s.done {
		return nil
	}
	if err := s.commit(); err != nil {
		_ = s.Abort()
		return err
	}
	s.done = true

	_ = s.insert.Close()
	if err := s.db.Close(); err != nil {
		_ = os.Remove(s.tmpPath)
		return fmt.Errorf("close search db: %w", err)
	}
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		_ = os.Remove(s.tmpPath)
		return fmt.Errorf("replace search db: %w", err)
	}
	return nil
}

// Abort drops the pending export. The destination keeps its previous
// contents. Calls after Close or Abort are no-ops.
func (s *SQLiteIndexer) Abort() error {
	if s.done {
		return nil
	}
	s.done = true

	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	if s.insert != nil {
		_ = s.insert.Close()
	}
	_ = s.db.Close()
	if err := os.Remove(s.tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temp db: %w", err)
	}
	return nil
}
