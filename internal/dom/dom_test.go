package dom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&buf, c))
	}
	return buf.String()
}

func TestParseFragment_Queries(t *testing.T) {
	root, err := ParseFragment(`<section class="members wide"><h4>Members</h4><ul><li><a href="x">path</a></li><li><a href="y">sep</a></li></ul></section>`)
	require.NoError(t, err)

	sec := Find(root, ByClass("members"))
	require.NotNil(t, sec)
	assert.Equal(t, "section", sec.Data)
	assert.NotNil(t, Find(root, ByClass("wide")))
	assert.Nil(t, Find(root, ByClass("member")))

	items := FindAll(sec, ByTag(atom.Li))
	require.Len(t, items, 2)
	a := Find(items[1], ByTag(atom.A))
	require.NotNil(t, a)
	assert.Equal(t, "y", Attr(a, "href"))
	assert.Equal(t, "", Attr(a, "title"))
	assert.Equal(t, "sep", Text(a))
	assert.Equal(t, "Memberspathsep", Text(sec))
}

func TestSanitize(t *testing.T) {
	root, err := ParseFragment(`<p onclick="evil()">Hello <script>alert(1)</script><a href="javascript:alert(1)">x</a><a href="https://ok">ok</a></p><style>p{}</style><!-- note --><iframe src="x"></iframe>`)
	require.NoError(t, err)

	Sanitize(root)
	out := render(t, root)

	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "style")
	assert.NotContains(t, out, "iframe")
	assert.NotContains(t, out, "note")
	assert.Contains(t, out, `<a href="https://ok">ok</a>`)
	assert.Contains(t, out, "Hello ")
}

func TestPlainText(t *testing.T) {
	text, err := PlainText(`<section class="header"><h4><span class="name">os</span> <span class="kind">module</span></h4></section>
<section class="members"><ul><li><a>path</a>   <span>module</span></li><li><a>getcwd()</a></li></ul></section>
<pre><code>import os
os.getcwd()
</code></pre><script>x()</script><p>Done.</p>`)
	require.NoError(t, err)

	want := "os module\n\n- path module\n\n- getcwd()\n\nimport os\nos.getcwd()\n\nDone."
	assert.Equal(t, want, text)
}

func TestPlainText_Empty(t *testing.T) {
	text, err := PlainText("")
	require.NoError(t, err)
	assert.Empty(t, text)
}
