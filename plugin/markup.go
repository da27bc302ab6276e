package plugin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cactus-go/cactus/page"
	"github.com/cactus-go/cactus/renderer"
)

// LayoutKey names the context entry selecting the layout a converted
// Markdown body is rendered into.
const LayoutKey = "layout"

// SummaryKey holds the plain text of a converted Markdown body.
const SummaryKey = "summary"

// Markup converts Markdown bodies to HTML before they reach the template engine.
type Markup struct {
	renderer *renderer.Renderer
	logger   *slog.Logger
}

func NewMarkup(r *renderer.Renderer, logger *slog.Logger) *Markup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Markup{renderer: r, logger: logger}
}

func (m *Markup) Name() string { return "markup" }

// PreBuildPage converts Markdown pages. Metadata, headings and the plain-text
// summary found in the document only fill keys the context does not already have. When a layout
// is set, the HTML becomes its "content" block.
func (m *Markup) PreBuildPage(_ page.Site, p *page.Page, ctx page.Context, data string) (page.Context, string, error) {
	switch {
	case p.IsMarkdown():
	case p.IsHaml():
		m.logger.Warn("no haml converter available, body left as is", "source", p.SourcePath())
		return ctx, data, nil
	default:
		return ctx, data, nil
	}

	result, err := m.renderer.Render([]byte(data))
	if err != nil {
		return nil, "", fmt.Errorf("convert markdown %s: %w", p.SourcePath(), err)
	}
	for key, value := range result.Meta {
		if _, exists := ctx[key]; !exists {
			ctx[key] = value
		}
	}
	if _, exists := ctx["headings"]; !exists {
		ctx["headings"] = result.Headings
	}
	if _, exists := ctx[SummaryKey]; !exists {
		ctx[SummaryKey] = result.PlainText
	}

	body := string(result.HTML)
	if layout, _ := ctx[LayoutKey].(string); strings.TrimSpace(layout) != "" {
		body = fmt.Sprintf("{{ define \"content\" }}%s{{ end }}{{ template %q . }}", body, strings.TrimSpace(layout))
	}
	return ctx, body, nil
}
