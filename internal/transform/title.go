package transform

import (
	"regexp"
	"strings"
)

// arabicMarker is the filename suffix convention for Arabic translations.
const arabicMarker = "-AR"

// headingPattern matches a level-1 markdown heading on any line.
var headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// ResolveTitle picks a display title: the "title" metadata field, then the
// first level-1 heading in raw, then the filename stem. raw is the document
// as read from disk, before front matter is removed, so a heading inside
// the metadata block still counts.
func ResolveTitle(meta map[string]string, raw, filename string) string {
	return firstNonEmpty(meta["title"], headingTitle(raw), titleFromFilename(filename))
}

func headingTitle(raw string) string {
	m := headingPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func titleFromFilename(filename string) string {
	return strings.ReplaceAll(stem(filename), arabicMarker, "")
}

// stem strips the extension from name. Leading dots do not start an
// extension, so ".md" is returned as is.
func stem(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || strings.Trim(name[:dot], ".") == "" {
		return name
	}
	return name[:dot]
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
