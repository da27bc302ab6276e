package page

import (
	"path"
	"strings"
)

// Kind classifies a page source by its extension.
type Kind int

const (
	KindStatic Kind = iota
	KindHTML
	KindMarkdown
	KindHaml
)

var extensionKinds = map[string]Kind{
	".html":     KindHTML,
	".md":       KindMarkdown,
	".mdown":    KindMarkdown,
	".markdown": KindMarkdown,
	".haml":     KindHaml,
}

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	case KindHaml:
		return "haml"
	default:
		return "static"
	}
}

// ProducesHTML reports whether pages of this kind are built to HTML.
func (k Kind) ProducesHTML() bool {
	return k != KindStatic
}

// Classify derives the kind of sourcePath and whether it is an index page.
// Matching is case-insensitive.
func Classify(sourcePath string) (Kind, bool) {
	lower := strings.ToLower(sourcePath)
	ext := path.Ext(lower)
	kind, ok := extensionKinds[ext]
	if !ok {
		return KindStatic, false
	}
	return kind, strings.HasSuffix(strings.TrimSuffix(lower, ext), "index")
}

// Location holds the three addresses of a page.
type Location struct {
	// LinkURL is how other pages reference this one during the build.
	LinkURL string
	// FinalURL is where the built page is reachable.
	FinalURL string
	// BuildPath is relative to the build root.
	BuildPath string
}

// Locatable is anything addressable by a resolved Location.
type Locatable interface {
	LinkURL() string
	FinalURL() string
	BuildPath() string
}

var _ Locatable = (*Page)(nil)

// Resolve maps a source path to its link URL, final URL and build path.
// Without prettify, or for pages that do not produce HTML, the mapping is 1:1.
// With prettify, index pages lose their "index<ext>" suffix and every other
// HTML page moves to "<stem>/index.html" so it is served as "/<stem>/".
func Resolve(sourcePath string, isHTML, isIndex, prettify bool) Location {
	link := "/" + sourcePath
	loc := Location{LinkURL: link, FinalURL: link, BuildPath: sourcePath}
	if !prettify || !isHTML {
		return loc
	}

	ext := path.Ext(sourcePath)
	if isIndex {
		loc.FinalURL = link[:len(link)-len(ext)-len("index")]
		return loc
	}

	stem := sourcePath[:len(sourcePath)-len(ext)]
	loc.FinalURL = "/" + stem + "/"
	loc.BuildPath = stem + "/index.html"
	return loc
}
