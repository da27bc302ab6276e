// Package templatex renders page bodies with html/template against the
// site's shared layouts.
package templatex

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cactus-go/cactus/page"
)

// PageTemplate is the name a page body is parsed under.
const PageTemplate = "page"

// Engine is a thin wrapper around Go templates holding the site layouts.
type Engine struct {
	layouts *template.Template
	names   []string
}

// Load parses every *.html file in templateDir and templateDir/partials as
// layouts pages can invoke with {{ template "name.html" . }}. A missing
// directory yields an engine without layouts. extra funcs override the
// built-in ones.
func Load(templateDir string, extra template.FuncMap) (*Engine, error) {
	funcs := template.FuncMap{
		"safeHTML": func(v any) template.HTML {
			switch value := v.(type) {
			case template.HTML:
				return value
			case string:
				return template.HTML(value)
			default:
				return ""
			}
		},
		"baseHref": func(base string) string {
			base = strings.TrimSpace(base)
			if base == "" || base == "/" {
				return "/"
			}
			trimmed := strings.Trim(base, "/")
			return "/" + trimmed + "/"
		},
		// Replaced per render with the page being built.
		"page": func() *page.Page { return nil },
	}
	for name, fn := range extra {
		funcs[name] = fn
	}

	root := template.New("root").Funcs(funcs)
	engine := &Engine{layouts: root}
	if templateDir == "" {
		return engine, nil
	}

	files := make([]string, 0)
	for _, dir := range []string{templateDir, filepath.Join(templateDir, "partials")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("glob templates: %w", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return engine, nil
	}
	sort.Strings(files)

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", file, err)
		}
		name, err := filepath.Rel(templateDir, file)
		if err != nil {
			return nil, err
		}
		name = filepath.ToSlash(name)
		if _, err := root.New(name).Parse(string(raw)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		engine.names = append(engine.names, name)
	}
	return engine, nil
}

// Layouts lists the loaded layout names.
func (e *Engine) Layouts() []string {
	return append([]string(nil), e.names...)
}

// Render evaluates body against ctx. Each call works on its own copy of the
// layout set so pages can be rendered concurrently.
func (e *Engine) Render(body string, ctx page.Context) (string, error) {
	if e.layouts == nil {
		return "", fmt.Errorf("template engine not initialized")
	}
	tpl, err := e.layouts.Clone()
	if err != nil {
		return "", fmt.Errorf("clone layouts: %w", err)
	}
	current, _ := ctx[page.CurrentPageKey].(*page.Page)
	tpl.Funcs(template.FuncMap{"page": func() *page.Page { return current }})

	if _, err := tpl.New(PageTemplate).Parse(body); err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, PageTemplate, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
