package page

import (
	"fmt"
	"maps"
	"os"
	"unicode/utf8"

	"github.com/cactus-go/cactus/fsutil"
)

// Read loads the source file. Data that is not valid UTF-8 is returned as Binary.
func (p *Page) Read() (Content, error) {
	full := p.FullSourcePath()
	raw, err := os.ReadFile(full)
	if err != nil {
		p.logger().Error("source unreadable", "path", full, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, p.sourcePath, err)
	}
	if !utf8.Valid(raw) {
		return Binary(raw), nil
	}
	return Text(raw), nil
}

// ParseContext extracts the front matter of HTML-producing pages. Other pages
// get an empty header and their data back unchanged.
func (p *Page) ParseContext(data string) (FrontMatter, string) {
	if !p.IsHTML() {
		return FrontMatter{}, data
	}
	return ParseFrontMatter(data)
}

// Context merges, later entries winning: the current page marker, the site
// context, extra, then the page's own front matter.
func (p *Page) Context(fm FrontMatter, extra map[string]any) Context {
	ctx := Context{CurrentPageKey: p}
	maps.Copy(ctx, p.site.Context())
	maps.Copy(ctx, extra)
	for key, value := range fm {
		ctx[key] = value
	}
	return ctx
}

// Render produces the output for the page. Binary pages are returned as read.
func (p *Page) Render(extra map[string]any) (Content, error) {
	content, err := p.Read()
	if err != nil {
		return nil, err
	}
	text, ok := content.(Text)
	if !ok {
		return content, nil
	}

	fm, body := p.ParseContext(string(text))
	ctx := p.Context(fm, extra)

	if plugins := p.site.PluginManager(); plugins != nil {
		ctx, body, err = plugins.PreBuildPage(p.site, p, ctx, body)
		if err != nil {
			return nil, fmt.Errorf("pre-build %s: %w", p.sourcePath, err)
		}
	}

	out := body
	if engine := p.site.TemplateEngine(); engine != nil {
		out, err = engine.Render(body, ctx)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.sourcePath, err)
		}
	}

	if m := p.site.Minifier(); m != nil {
		minified, err := m.Minify(p.loc.BuildPath, []byte(out))
		if err != nil {
			return nil, fmt.Errorf("minify %s: %w", p.sourcePath, err)
		}
		out = string(minified)
	}
	return Text(out), nil
}

// Build renders the page and writes it to FullBuildPath unless it was
// discarded. A missing source yields an error matching ErrSourceUnreadable;
// the failure has already been logged.
func (p *Page) Build() error {
	log := p.logger()
	log.Debug("building page", "source", p.sourcePath, "url", p.loc.FinalURL)

	content, err := p.Render(nil)
	if err != nil {
		return err
	}

	if p.Discarded() {
		log.Debug("page discarded", "source", p.sourcePath)
		return nil
	}

	if err := fsutil.WriteFile(p.FullBuildPath(), content.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", p.loc.BuildPath, err)
	}

	if plugins := p.site.PluginManager(); plugins != nil {
		if err := plugins.PostBuildPage(p); err != nil {
			return fmt.Errorf("post-build %s: %w", p.sourcePath, err)
		}
	}
	return nil
}
