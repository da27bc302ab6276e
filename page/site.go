package page

import "log/slog"

// CurrentPageKey is the context key under which the page being rendered is exposed.
const CurrentPageKey = "__CACTUS_CURRENT_PAGE__"

// Context is the string-keyed value map handed to the template engine.
type Context map[string]any

// Site is the read-only view of the site a page is built against.
// Implementations must not mutate anything returned by Context during a build.
type Site interface {
	Path() string
	BuildPath() string
	PrettifyURLs() bool
	URL() string
	Context() map[string]any
	PluginManager() PluginManager
	TemplateEngine() TemplateEngine
	Minifier() Minifier
	Logger() *slog.Logger
}

// PluginManager dispatches the per-page build hooks.
type PluginManager interface {
	PreBuildPage(site Site, p *Page, ctx Context, data string) (Context, string, error)
	PostBuildPage(p *Page) error
}

// TemplateEngine evaluates a page body against its context.
type TemplateEngine interface {
	Render(body string, ctx Context) (string, error)
}

// Minifier compacts rendered output. name is used to pick the media type;
// unsupported types are returned unchanged.
type Minifier interface {
	Minify(name string, data []byte) ([]byte, error)
}
