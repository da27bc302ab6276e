package plugin

import (
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cactus-go/cactus/page"
)

const descriptionLimit = 160

// Entry describes one built HTML page.
type Entry struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Catalog records every HTML page that was written during a build.
type Catalog struct {
	mu      sync.Mutex
	pending map[string]Entry
	entries map[string]Entry
	lang    language.Tag
}

// NewCatalog orders entries using the collation rules of lang.
func NewCatalog(lang language.Tag) *Catalog {
	return &Catalog{
		pending: make(map[string]Entry),
		entries: make(map[string]Entry),
		lang:    lang,
	}
}

func (c *Catalog) Name() string { return "catalog" }

// Reset forgets everything recorded by a previous build.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.pending)
	clear(c.entries)
}

func (c *Catalog) PreBuildPage(_ page.Site, p *page.Page, ctx page.Context, data string) (page.Context, string, error) {
	if !p.IsHTML() {
		return ctx, data, nil
	}
	entry := Entry{
		Source:      p.SourcePath(),
		URL:         p.FinalURL(),
		Title:       norm.NFC.String(stringValue(ctx["title"])),
		Description: norm.NFC.String(description(stringValue(ctx["description"]), stringValue(ctx[SummaryKey]))),
	}
	if entry.Title == "" {
		entry.Title = deriveTitle(p.SourcePath())
	}
	c.mu.Lock()
	c.pending[p.SourcePath()] = entry
	c.mu.Unlock()
	return ctx, data, nil
}

func (c *Catalog) PostBuildPage(p *page.Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.pending[p.SourcePath()]; ok {
		delete(c.pending, p.SourcePath())
		c.entries[p.SourcePath()] = entry
	}
	return nil
}

// Entries returns the written pages ordered by title, then URL.
func (c *Catalog) Entries() []Entry {
	c.mu.Lock()
	out := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	c.mu.Unlock()

	col := collate.New(c.lang, collate.IgnoreCase)
	sort.Slice(out, func(i, j int) bool {
		if cmp := col.CompareString(out[i].Title, out[j].Title); cmp != 0 {
			return cmp < 0
		}
		return out[i].URL < out[j].URL
	})
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func deriveTitle(sourcePath string) string {
	name := path.Base(sourcePath)
	name = strings.TrimSuffix(name, path.Ext(name))
	if strings.EqualFold(name, "index") {
		if dir := path.Dir(sourcePath); dir != "." {
			name = path.Base(dir)
		}
	}
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "Untitled"
	}
	return name
}

// description prefers text and falls back to summary, collapsed to one line
// and cut at descriptionLimit runes.
func description(text, summary string) string {
	if text == "" {
		text = summary
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= descriptionLimit {
		return text
	}
	return string(runes[:descriptionLimit-1]) + "..."
}
