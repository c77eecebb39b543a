package transform

import (
	"path/filepath"
	"strings"
)

// Rule assigns Group to every path starting with Prefix.
type Rule struct {
	Prefix string
	Group  Group
}

// DefaultRules maps the top-level site folders to their groups.
var DefaultRules = []Rule{
	{Prefix: "Apps/", Group: GroupApps},
	{Prefix: "Technologies/", Group: GroupTechnologies},
}

// Classifier assigns groups to relative document paths. Rules are tried in
// order and the first matching prefix wins; unmatched paths are GroupRoot.
type Classifier struct {
	Rules []Rule
}

// NewClassifier returns a classifier using rules, or DefaultRules when
// rules is empty.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{Rules: rules}
}

// Group classifies relPath. Matching is a case-sensitive prefix test on the
// slash-separated path.
func (c *Classifier) Group(relPath string) Group {
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	for _, rule := range c.Rules {
		if strings.HasPrefix(relPath, rule.Prefix) {
			return rule.Group
		}
	}
	return GroupRoot
}

// DetectLanguage returns LanguageArabic for filenames carrying the "-AR.md"
// marker and LanguageEnglish otherwise.
func DetectLanguage(filename string) Language {
	if strings.Contains(filename, arabicMarker+".md") {
		return LanguageArabic
	}
	return LanguageEnglish
}
