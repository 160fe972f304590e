package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	html := Render("# Hello World\n\nSome **bold** text.\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, html, `<h1 id="hello-world">Hello World</h1>`)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<table>")
}

func TestRenderDropsRawHTML(t *testing.T) {
	html := Render("hi <script>alert(1)</script>")
	assert.NotContains(t, html, "<script>")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render("   \n"))
}
