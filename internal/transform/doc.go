// Package transform extracts search metadata from raw markdown documents.
//
// The pipeline runs as a sequence of stages over one document:
//  1. Parse and strip the front-matter block
//  2. Resolve the title (front matter, override, heading, filename)
//  3. Detect language from the filename
//  4. Classify the group from the relative path
package transform

import (
	"path"
	"strings"
)

// Doc holds the metadata extracted from a single document.
type Doc struct {
	Path     string            // slash-separated, relative to the scan root
	Meta     map[string]string // front-matter fields (set by stage 1)
	Content  string            // trimmed body without front matter (set by stage 1)
	Title    string            // set by stage 2
	Language Language          // set by stage 3
	Group    Group             // set by stage 4
}

// Pipeline runs all extraction stages on raw. classifier may be nil, in
// which case DefaultRules apply; override may be nil.
func Pipeline(relPath, raw string, classifier *Classifier, override *Override) Doc {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if override == nil {
		override = &Override{}
	}

	doc := Doc{Path: relPath}
	filename := path.Base(relPath)

	// Stage 1: Parse front matter.
	var body string
	doc.Meta, body = ParseFrontMatter(raw)
	doc.Content = strings.TrimSpace(body)

	// Stage 2: Resolve title. The heading search runs on raw, not body.
	doc.Title = firstNonEmpty(doc.Meta["title"], override.Title, headingTitle(raw), titleFromFilename(filename))

	// Stage 3: Detect language.
	doc.Language = DetectLanguage(filename)

	// Stage 4: Classify group.
	doc.Group = classifier.Group(relPath)
	if override.Group.Valid() {
		doc.Group = override.Group
	}

	return doc
}
