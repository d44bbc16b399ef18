package markup

import (
	"html"
	"strings"
)

// TextToHTML escapes text and wraps every non-blank line in a paragraph.
func TextToHTML(text string) string {
	var b strings.Builder
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}
