// Package page resolves where a source file is linked, served and built, and
// renders it through the site's plugins and template engine.
package page

import (
	"log/slog"
	"net/url"
	"path/filepath"
	"sync/atomic"
)

// Page is a single source file under the site's pages directory.
type Page struct {
	site       Site
	sourcePath string
	loc        Location
	kind       Kind
	index      bool
	discarded  atomic.Bool
}

// New classifies sourcePath and resolves its URLs once for the page's lifetime.
func New(site Site, sourcePath string) *Page {
	sourcePath = filepath.ToSlash(sourcePath)
	kind, index := Classify(sourcePath)
	return &Page{
		site:       site,
		sourcePath: sourcePath,
		kind:       kind,
		index:      index,
		loc:        Resolve(sourcePath, kind.ProducesHTML(), index, site.PrettifyURLs()),
	}
}

func (p *Page) SourcePath() string { return p.sourcePath }
func (p *Page) LinkURL() string { return p.loc.LinkURL }
func (p *Page) FinalURL() string { return p.loc.FinalURL }
func (p *Page) BuildPath() string { return p.loc.BuildPath }
func (p *Page) Location() Location { return p.loc }
func (p *Page) Kind() Kind { return p.kind }

// IsHTML reports whether the page is built to HTML.
func (p *Page) IsHTML() bool { return p.kind.ProducesHTML() }
func (p *Page) IsIndex() bool { return p.index }
func (p *Page) IsMarkdown() bool { return p.kind == KindMarkdown }
func (p *Page) IsHaml() bool { return p.kind == KindHaml }

// Discard suppresses the write step of the current build. Rendering still runs.
func (p *Page) Discard() { p.discarded.Store(true) }
func (p *Page) Discarded() bool { return p.discarded.Load() }

// AbsoluteFinalURL resolves the final URL against the site's base URL.
func (p *Page) AbsoluteFinalURL() string {
	base, err := url.Parse(p.site.URL())
	if err != nil || p.site.URL() == "" {
		return p.loc.FinalURL
	}
	ref, err := url.Parse(p.loc.FinalURL)
	if err != nil {
		return p.loc.FinalURL
	}
	return base.ResolveReference(ref).String()
}

// FullSourcePath is the on-disk location of the source file.
func (p *Page) FullSourcePath() string {
	return filepath.Join(p.site.Path(), "pages", filepath.FromSlash(p.sourcePath))
}

// FullBuildPath is the on-disk location the rendered page is written to.
func (p *Page) FullBuildPath() string {
	return filepath.Join(p.site.BuildPath(), filepath.FromSlash(p.loc.BuildPath))
}

func (p *Page) String() string {
	return "<Page: " + p.sourcePath + ">"
}

func (p *Page) logger() *slog.Logger {
	if l := p.site.Logger(); l != nil {
		return l
	}
	return slog.Default()
}
