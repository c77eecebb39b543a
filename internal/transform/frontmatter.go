package transform

import (
	"regexp"
	"strings"
)

// frontMatterPattern matches a leading "---" block. The body is matched
// lazily so the first closing marker ends the block.
var frontMatterPattern = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n`)

// ParseFrontMatter splits an optional leading metadata block from text.
// Keys and values are trimmed and values lose surrounding quotes. When no
// block is present the metadata is empty and body is text unchanged.
func ParseFrontMatter(text string) (meta map[string]string, body string) {
	meta = make(map[string]string)

	loc := frontMatterPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return meta, text
	}

	for _, line := range strings.Split(text[loc[2]:loc[3]], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	return meta, text[loc[1]:]
}
