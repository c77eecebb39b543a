package transform

// Language is the document language derived from the filename.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// Group is the coarse section of the site a document belongs to.
type Group string

const (
	GroupApps         Group = "apps"
	GroupTechnologies Group = "technologies"
	GroupRoot         Group = "root"
)

// Valid reports whether g is one of the groups the search widget knows.
func (g Group) Valid() bool {
	switch g {
	case GroupApps, GroupTechnologies, GroupRoot:
		return true
	}
	return false
}

// Override holds per-document values supplied from outside the document
// itself (the site manifest). Empty fields are ignored.
type Override struct {
	Title string
	Group Group
}
