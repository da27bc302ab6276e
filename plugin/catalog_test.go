package plugin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cactus-go/cactus/page"
)

func record(t *testing.T, c *Catalog, p *page.Page, ctx page.Context, written bool) {
	t.Helper()
	_, _, err := c.PreBuildPage(stubSite{prettify: true}, p, ctx, "")
	require.NoError(t, err)
	if written {
		require.NoError(t, c.PostBuildPage(p))
	}
}

func TestCatalog_RecordsOnlyWrittenHTMLPages(t *testing.T) {
	site := stubSite{prettify: true}
	c := NewCatalog(language.English)

	record(t, c, page.New(site, "zebra.html"), page.Context{"title": "zebra"}, true)
	record(t, c, page.New(site, "about.html"), page.Context{"title": "About", "description": "  Who   we are "}, true)
	record(t, c, page.New(site, "draft.html"), page.Context{"title": "Draft"}, false)
	record(t, c, page.New(site, "style.css"), page.Context{}, true)
	record(t, c, page.New(site, "blog/index.html"), page.Context{}, true)

	require.Equal(t, []Entry{
		{Source: "about.html", URL: "/about/", Title: "About", Description: "Who we are"},
		{Source: "blog/index.html", URL: "/blog/", Title: "blog"},
		{Source: "zebra.html", URL: "/zebra/", Title: "zebra"},
	}, c.Entries())
}

func TestCatalog_ResetClearsEntries(t *testing.T) {
	c := NewCatalog(language.Und)
	record(t, c, page.New(stubSite{}, "a.html"), page.Context{}, true)
	require.Len(t, c.Entries(), 1)

	c.Reset()
	require.Empty(t, c.Entries())
}

func TestCatalog_NormalizesAndTruncates(t *testing.T) {
	c := NewCatalog(language.Und)
	long := strings.Repeat("word ", 60)
	record(t, c, page.New(stubSite{}, "cafe.html"), page.Context{"title": "Café", "description": long}, true)

	entries := c.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "Café", entries[0].Title)
	require.Len(t, []rune(entries[0].Description), descriptionLimit+2)
	require.True(t, strings.HasSuffix(entries[0].Description, "..."))
}

func TestCatalog_DescriptionFallsBackToSummary(t *testing.T) {
	c := NewCatalog(language.Und)
	record(t, c, page.New(stubSite{}, "a.md"), page.Context{SummaryKey: "Plain  body\ntext"}, true)
	record(t, c, page.New(stubSite{}, "b.md"), page.Context{"description": "Given", SummaryKey: "ignored"}, true)

	entries := c.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "Plain body text", entries[0].Description)
	require.Equal(t, "Given", entries[1].Description)
}

func TestDeriveTitle(t *testing.T) {
	require.Equal(t, "my first post", deriveTitle("blog/my-first_post.html"))
	require.Equal(t, "blog", deriveTitle("blog/index.html"))
	require.Equal(t, "index", deriveTitle("index.html"))
}
