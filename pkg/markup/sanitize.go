package markup

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		ugcPolicy = bluemonday.UGCPolicy()
		ugcPolicy.RequireNoFollowOnLinks(true)
		ugcPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// StripHTML removes all markup and returns plain text.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTML keeps the formatting elements markdown produces and drops
// scripts, event handlers and unsafe URLs.
func SanitizeHTML(s string) string {
	initPolicies()
	return ugcPolicy.Sanitize(s)
}
