// Package renderer converts markup sources to HTML and minifies build output.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlRenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Heading represents a heading entry for table-of-contents rendering.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// RenderResult wraps HTML markup and extracted metadata.
type RenderResult struct {
	HTML      []byte
	PlainText string
	Headings  []Heading
	// Meta holds the YAML metadata block, if the source opened with one.
	Meta map[string]any
}

// Options tune the Markdown renderer.
type Options struct {
	// HighlightStyle selects an inline chroma style. Empty emits CSS classes.
	HighlightStyle string
	// Sanitize passes the generated HTML through a user-content policy.
	Sanitize bool
}

// Renderer transforms markdown sources into HTML fragments.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New constructs a renderer with GitHub-flavored markdown extensions and syntax highlighting.
func New(opts Options) *Renderer {
	highlight := []highlighting.Option{
		highlighting.WithWrapperRenderer(codeWrapper),
	}
	if opts.HighlightStyle != "" {
		highlight = append(highlight,
			highlighting.WithStyle(opts.HighlightStyle),
			highlighting.WithFormatOptions(chromahtml.PreventSurroundingPre(true)),
		)
	} else {
		highlight = append(highlight, highlighting.WithFormatOptions(
			chromahtml.WithClasses(true),
			chromahtml.WithAllClasses(true),
			chromahtml.ClassPrefix("z-"),
			chromahtml.PreventSurroundingPre(true),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
			extension.Footnote,
			highlighting.NewHighlighting(highlight...),
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			htmlRenderer.WithUnsafe(),
		),
	)

	r := &Renderer{md: md}
	if opts.Sanitize {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("tabindex", "data-lang").OnElements("pre", "code")
		r.policy = policy
	}
	return r
}

// Render converts the provided markdown into HTML and collects headings and metadata.
func (r *Renderer) Render(src []byte) (*RenderResult, error) {
	pctx := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	metadata, err := meta.TryGet(pctx)
	if err != nil {
		return nil, fmt.Errorf("markdown metadata: %w", err)
	}

	headings := make([]Heading, 0, 16)
	plainBuilder := &strings.Builder{}
	slugCounts := make(map[string]int)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			attr, _ := node.AttributeString("id")
			text := extractText(node, src)
			id := attributeToString(attr)
			if id == "" {
				base := slugify(text)
				count := slugCounts[base]
				if count > 0 {
					id = fmt.Sprintf("%s-%d", base, count)
				} else {
					id = base
				}
				slugCounts[base] = count + 1
				node.SetAttributeString("id", []byte(id))
			} else {
				slugCounts[id]++
			}
			headings = append(headings, Heading{ID: id, Text: text, Level: node.Level})
		case *ast.Text:
			plainBuilder.Write(node.Segment.Value(src))
			plainBuilder.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if r.policy != nil {
		out = r.policy.SanitizeBytes(out)
	}

	result := &RenderResult{
		HTML:      out,
		PlainText: strings.TrimSpace(plainBuilder.String()),
		Headings:  headings,
		Meta:      make(map[string]any, len(metadata)),
	}
	for key, value := range metadata {
		result.Meta[key] = value
	}
	return result, nil
}

func extractText(root ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if n == root {
			return ast.WalkContinue, nil
		}
		if text, ok := n.(*ast.Text); ok && entering {
			sb.Write(text.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func attributeToString(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

func slugify(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	var sb strings.Builder
	lastDash := false
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if sb.Len() == 0 || lastDash {
				continue
			}
			sb.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		return "section"
	}
	return slug
}

func codeWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	lang := "text"
	if raw, ok := ctx.Language(); ok && len(raw) > 0 {
		lang = string(raw)
	}
	lang = string(util.EscapeHTML([]byte(lang)))
	if entering {
		_, _ = fmt.Fprintf(w, `<pre tabindex="0" class="z-chroma z-code language-%[1]s" data-lang="%[1]s"><code class="language-%[1]s" data-lang="%[1]s">`, lang)
		return
	}
	_, _ = w.WriteString("</code></pre>\n")
}
