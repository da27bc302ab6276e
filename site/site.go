// Package site wires configuration, plugins and templates into a page.Site
// and builds every page under the site's pages directory.
package site

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/cactus-go/cactus/config"
	"github.com/cactus-go/cactus/page"
	"github.com/cactus-go/cactus/plugin"
	"github.com/cactus-go/cactus/renderer"
	"github.com/cactus-go/cactus/templatex"
)

// Site is the page.Site implementation used for real builds.
type Site struct {
	cfg      *config.Config
	logger   *slog.Logger
	plugins  *plugin.Manager
	catalog  *plugin.Catalog
	funcs    template.FuncMap
	minifier page.Minifier

	mu     sync.RWMutex
	engine *templatex.Engine
	links  map[string]string
}

// New constructs a Site with the built-in markup, drafts and catalog plugins.
func New(cfg *config.Config, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rend := renderer.New(renderer.Options{
		Sanitize:       cfg.Markdown.Sanitize,
		HighlightStyle: cfg.Markdown.HighlightStyle,
	})
	catalog := plugin.NewCatalog(cfg.LanguageTag())
	plugins, err := plugin.NewManager(plugin.NewMarkup(rend, logger), plugin.Drafts{}, catalog)
	if err != nil {
		return nil, err
	}

	s := &Site{
		cfg:     cfg,
		logger:  logger,
		plugins: plugins,
		catalog: catalog,
		links:   map[string]string{},
	}

	s.funcs = template.FuncMap{
		"url":    s.FinalURLFor,
		"absURL": s.AbsoluteURLFor,
	}
	if err := s.refreshTemplates(); err != nil {
		return nil, err
	}

	if cfg.Minify {
		s.minifier = renderer.NewMinifier()
	}
	return s, nil
}

func (s *Site) Path() string                      { return s.cfg.Path }
func (s *Site) BuildPath() string                 { return s.cfg.BuildDir }
func (s *Site) PrettifyURLs() bool                { return s.cfg.PrettifyURLs }
func (s *Site) URL() string                       { return s.cfg.URL }
func (s *Site) PluginManager() page.PluginManager { return s.plugins }
func (s *Site) Minifier() page.Minifier           { return s.minifier }
func (s *Site) Logger() *slog.Logger              { return s.logger }

// TemplateEngine returns the layouts loaded by the latest refresh.
func (s *Site) TemplateEngine() page.TemplateEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// refreshTemplates reparses the templates directory so edited, added and
// removed layouts take effect on the next build.
func (s *Site) refreshTemplates() error {
	engine, err := templatex.Load(s.cfg.TemplatesDir(), s.funcs)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
	return nil
}

// Context is the global template context. Callers must treat it as read-only.
func (s *Site) Context() map[string]any { return s.cfg.Context }

// Register adds a plugin after the built-in ones.
func (s *Site) Register(p plugin.Plugin) error {
	return s.plugins.Register(p)
}

// Catalog exposes the pages recorded by the last build.
func (s *Site) Catalog() []plugin.Entry {
	return s.catalog.Entries()
}

// FinalURLFor maps a page's link URL to its final URL. Unknown links are
// returned unchanged so external and asset URLs pass straight through.
func (s *Site) FinalURLFor(link string) string {
	key := link
	if !strings.HasPrefix(key, "/") && !strings.Contains(key, "://") {
		key = "/" + key
	}
	s.mu.RLock()
	final, ok := s.links[key]
	s.mu.RUnlock()
	if !ok {
		return link
	}
	return final
}

// AbsoluteURLFor is FinalURLFor resolved against the site's base URL.
func (s *Site) AbsoluteURLFor(link string) string {
	final := s.FinalURLFor(link)
	if s.cfg.URL == "" {
		return final
	}
	base, err := url.Parse(s.cfg.URL)
	if err != nil {
		return final
	}
	ref, err := url.Parse(final)
	if err != nil {
		return final
	}
	return base.ResolveReference(ref).String()
}

func (s *Site) indexLinks(pages []page.Locatable) {
	links := make(map[string]string, len(pages))
	for _, p := range pages {
		links[p.LinkURL()] = p.FinalURL()
	}
	s.mu.Lock()
	s.links = links
	s.mu.Unlock()
}
