package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{``, ``},
		{`plain text`, `plain text`},
		{`<p>hello</p>`, `<p>hello</p>`},
		{`<script>alert(1)</script><p>after</p>`, `<p>after</p>`},
		{`<style>body { display: none }</style>text`, `text`},
		{`<iframe src="https://evil.example"></iframe>ok`, `ok`},
		{`<p onclick="alert(1)">click</p>`, `<p>click</p>`},
		{`<a href="javascript:alert(1)">x</a>`, `<a>x</a>`},
		{`<a href="JavaScript: alert(1)">x</a>`, `<a>x</a>`},
		{`<a href="https://example.com">x</a>`, `<a href="https://example.com">x</a>`},
		{`<img src="/a.png" onerror="alert(1)">`, `<img src="/a.png">`},
		{`<meta charset="utf-8">keep`, `keep`},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Sanitize(test.input), "input: %q", test.input)
	}
}

func TestRegistry(t *testing.T) {

	assert.Equal(t, []string{"html", "markdown"}, DefaultRegistry.All())

	_, ok := DefaultRegistry.Get("asciidoc")
	assert.False(t, ok)
}

func TestHTMLRender(t *testing.T) {
	out, err := HTML{}.Render(`<p>hi</p><script>alert(1)</script>`)
	assert.NoError(t, err)
	assert.Equal(t, `<p>hi</p>`, out)
}

func TestMarkdownRender(t *testing.T) {

	out, err := Markdown{}.Render("# Hello\n\nSome *emphasis*.")
	assert.NoError(t, err)
	assert.Contains(t, out, "<h1>Hello</h1>")
	assert.Contains(t, out, "<em>emphasis</em>")

	// raw HTML in the source passes through the renderer but not the sanitizer
	out, err = Markdown{}.Render("before\n\n<script>alert(1)</script>\n\nafter")
	assert.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert(1)")
}
