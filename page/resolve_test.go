package page

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path  string
		kind  Kind
		index bool
	}{
		{"index.html", KindHTML, true},
		{"blog/INDEX.HTML", KindHTML, true},
		{"about.html", KindHTML, false},
		{"notes/post.md", KindMarkdown, false},
		{"notes/post.MDOWN", KindMarkdown, false},
		{"notes/index.markdown", KindMarkdown, true},
		{"layout.haml", KindHaml, false},
		{"static/style.css", KindStatic, false},
		{"static/index.css", KindStatic, false},
		{"README", KindStatic, false},
	}
	for _, tc := range cases {
		kind, index := Classify(tc.path)
		require.Equal(t, tc.kind, kind, tc.path)
		require.Equal(t, tc.index, index, tc.path)
	}
}

func TestResolve_WithoutPrettifyKeepsOneToOneMapping(t *testing.T) {
	for _, p := range []string{"index.html", "about.html", "blog/index.html", "img/logo.png", "post.md", "robots.txt"} {
		kind, index := Classify(p)
		loc := Resolve(p, kind.ProducesHTML(), index, false)
		require.Equal(t, "/"+p, loc.LinkURL)
		require.Equal(t, "/"+p, loc.FinalURL)
		require.Equal(t, p, loc.BuildPath)
	}
}

func TestResolve_PrettifyNonIndexHTML(t *testing.T) {
	for _, p := range []string{"about.html", "blog/first-post.html", "a/b/c.html"} {
		loc := Resolve(p, true, false, true)
		require.Equal(t, "/"+p, loc.LinkURL)
		require.Equal(t, "/"+p[:len(p)-5]+"/", loc.FinalURL)
		require.Equal(t, p[:len(p)-5]+"/index.html", loc.BuildPath)
	}
}

func TestResolve_PrettifyIndexHTML(t *testing.T) {
	for _, p := range []string{"index.html", "blog/index.html", "a/b/index.html"} {
		loc := Resolve(p, true, true, true)
		require.Equal(t, "/"+p, loc.LinkURL)
		require.Equal(t, "/"+p[:len(p)-len("index.html")], loc.FinalURL)
		require.Equal(t, p, loc.BuildPath)
	}
}

func TestResolve_PrettifyLeavesStaticAssetsAlone(t *testing.T) {
	loc := Resolve("static/index.css", false, false, true)
	require.Equal(t, Location{LinkURL: "/static/index.css", FinalURL: "/static/index.css", BuildPath: "static/index.css"}, loc)
}

func TestResolve_PrettifyMarkdownStripsItsOwnExtension(t *testing.T) {
	loc := Resolve("notes/Post.MD", true, false, true)
	require.Equal(t, "/notes/Post/", loc.FinalURL)
	require.Equal(t, "notes/Post/index.html", loc.BuildPath)

	loc = Resolve("notes/index.md", true, true, true)
	require.Equal(t, "/notes/", loc.FinalURL)
	require.Equal(t, "notes/index.md", loc.BuildPath)
}

func TestResolve_UppercaseIndex(t *testing.T) {
	kind, index := Classify("docs/INDEX.HTML")
	loc := Resolve("docs/INDEX.HTML", kind.ProducesHTML(), index, true)
	require.Equal(t, "/docs/", loc.FinalURL)
	require.Equal(t, "docs/INDEX.HTML", loc.BuildPath)
}
