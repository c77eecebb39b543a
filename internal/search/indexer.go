package search

import "context"

// Indexer abstracts the optional search export so the pipeline package
// does not depend on a specific storage engine. Close publishes what was
// indexed; Abort discards it and leaves any earlier export in place.
type Indexer interface {
	IndexDocument(ctx context.Context, doc Document) error
	Close() error
	Abort() error
}

// Document is one index record as stored by an Indexer.
type Document struct {
	Path     string
	Title    string
	Content  string
	Language string
	Group    string
}
