// Package markup turns user-authored text into safe HTML for the blog pages.
//
// Markdown renders blog bodies with goldmark and passes the output through a
// bluemonday UGC policy, so raw HTML in a post cannot inject scripts.
// TextToHTML is the plain-text variant used for comments: every non-blank line
// becomes an escaped paragraph. StripHTML reduces any input to plain text.
//
// Since formats a creation timestamp relative to now, the way listings show it.
package markup
