package text

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	ugcPolicy   = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()

	whitespace = regexp.MustCompile(`\s+`)
)

// RenderMarkdown converts markdown to HTML and sanitizes the result for display
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// PlainText renders markdown, then drops every tag and collapses whitespace
func PlainText(src string) string {
	rendered, err := RenderMarkdown(src)
	if err != nil {
		rendered = src
	}
	plain := html.UnescapeString(stripPolicy.Sanitize(rendered))
	return strings.TrimSpace(whitespace.ReplaceAllString(plain, " "))
}

// Truncate cuts s to at most max runes, appending an ellipsis when shortened
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "…"
}
