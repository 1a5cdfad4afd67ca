package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":              "hello-world",
		"  Café  Déjà vu ":         "cafe-deja-vu",
		"Go_1.24 release -- notes": "go-124-release-notes",
		"!!!":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("hello-world-2"))
	assert.False(t, IsValidSlug("Hello"))
	assert.False(t, IsValidSlug("-lead"))
	assert.False(t, IsValidSlug("a--b"))
	assert.False(t, IsValidSlug(""))
}

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nSome **bold** text <script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title Some bold & text", PlainText("# Title\n\nSome **bold** &amp; text"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc…", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}
