package markup

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRenderFailed is returned when markdown cannot be converted.
var ErrRenderFailed = errors.New("markup: failed to render markdown")

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown converts markdown source to sanitized HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}
	return SanitizeHTML(buf.String()), nil
}
