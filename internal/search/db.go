package search

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schema is applied to a fresh database file. Each export is built from
// scratch, so there are no migrations. Paths are unique per index, matching
// the JSON records.
const schema = `
CREATE TABLE documents (
	path TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	language TEXT NOT NULL CHECK (language IN ('en', 'ar')),
	grp TEXT NOT NULL CHECK (grp IN ('apps', 'technologies', 'root'))
);

CREATE INDEX documents_language_grp ON documents (language, grp);

CREATE VIRTUAL TABLE documents_fts USING fts5(
	title, content,
	content='documents',
	content_rowid='rowid',
	tokenize='unicode61'
);

CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, title, content)
	VALUES (new.rowid, new.title, new.content);
END;
`

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open search db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}
