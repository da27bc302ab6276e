package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cactus-go/cactus/page"
	"github.com/cactus-go/cactus/renderer"
)

func TestMarkup_ConvertsMarkdown(t *testing.T) {
	m := NewMarkup(renderer.New(renderer.Options{}), discardLogger())
	p := page.New(stubSite{}, "notes/post.md")

	ctx, body, err := m.PreBuildPage(stubSite{}, p, page.Context{"title": "Front"}, "---\ntitle: Meta\nauthor: ann\n---\n# Hello\n")
	require.NoError(t, err)

	require.Equal(t, "<h1 id=\"hello\">Hello</h1>\n", body)
	require.Equal(t, "Front", ctx["title"])
	require.Equal(t, "ann", ctx["author"])
	require.Equal(t, []renderer.Heading{{ID: "hello", Text: "Hello", Level: 1}}, ctx["headings"])
	require.Equal(t, "Hello", ctx[SummaryKey])
}

func TestMarkup_KeepsExistingSummary(t *testing.T) {
	m := NewMarkup(renderer.New(renderer.Options{}), discardLogger())
	p := page.New(stubSite{}, "post.md")

	ctx, _, err := m.PreBuildPage(stubSite{}, p, page.Context{SummaryKey: "mine"}, "some *body* text")
	require.NoError(t, err)
	require.Equal(t, "mine", ctx[SummaryKey])
}

func TestMarkup_WrapsLayout(t *testing.T) {
	m := NewMarkup(renderer.New(renderer.Options{}), discardLogger())
	p := page.New(stubSite{}, "post.markdown")

	_, body, err := m.PreBuildPage(stubSite{}, p, page.Context{LayoutKey: "post.html"}, "text")
	require.NoError(t, err)
	require.Equal(t, "{{ define \"content\" }}<p>text</p>\n{{ end }}{{ template \"post.html\" . }}", body)
}

func TestMarkup_LeavesOtherPagesAlone(t *testing.T) {
	m := NewMarkup(renderer.New(renderer.Options{}), discardLogger())
	for _, source := range []string{"index.html", "view.haml", "style.css"} {
		ctx := page.Context{"k": "v"}
		out, body, err := m.PreBuildPage(stubSite{}, page.New(stubSite{}, source), ctx, "# not markdown")
		require.NoError(t, err)
		require.Equal(t, "# not markdown", body)
		require.Equal(t, page.Context{"k": "v"}, out)
	}
}

func TestDrafts_DiscardsDraftPages(t *testing.T) {
	cases := map[any]bool{
		"true":  true,
		"yes":   false,
		"false": false,
		true:    true,
		nil:     false,
	}
	for value, discarded := range cases {
		p := page.New(stubSite{}, "post.html")
		ctx := page.Context{}
		if value != nil {
			ctx[DraftKey] = value
		}
		_, _, err := Drafts{}.PreBuildPage(stubSite{}, p, ctx, "")
		require.NoError(t, err)
		require.Equal(t, discarded, p.Discarded(), "%v", value)
	}
}
