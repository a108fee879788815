package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  KUR 2025: Bunga 6%!  ", "kur-2025-bunga-6"},
		{"Café Crème Brûlée", "cafe-creme-brulee"},
		{"multiple---dashes__and  spaces", "multiple-dashes-and-spaces"},
		{"日本語", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("# Title\n\nSome **bold** text.")
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	html := RenderMarkdown("hello <script>alert(1)</script>")
	assert.NotContains(t, html, "<script>")
}
